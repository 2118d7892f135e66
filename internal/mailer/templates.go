package mailer

import (
	"bytes"
	"fmt"
	html "html/template"
	"strings"

	"github.com/ksa-portal/admissions-api/internal/admission"
)

// Template data for the three message kinds sent by the portal.

type confirmationData struct {
	FullName   string
	TrackLabel string
	FormLink   string
	PortalURL  string
}

type correctionData struct {
	FullName  string
	AdminNote string
	PortalURL string
}

type bulkData struct {
	FullName  string
	Body      html.HTML
	PortalURL string
}

var (
	confirmationTmpl = html.Must(html.New("confirmation").Parse(`
<div style="font-family: sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #eee; border-radius: 10px;">
  <div style="background-color: #008000; color: white; padding: 15px; border-radius: 8px 8px 0 0; text-align: center;">
    <h1 style="margin: 0;">KSA Enrollment</h1>
  </div>
  <div style="padding: 20px;">
    <p>Dear {{.FullName}},</p>
    <p>Congratulations! You have qualified for the <strong>{{.TrackLabel}}</strong> track at Kenya School of Agriculture.</p>
    <div style="background-color: #f9f9f9; padding: 15px; border-left: 4px solid #008000; margin: 20px 0;">
      <h3 style="margin-top: 0;">Next Steps:</h3>
      <ol style="line-height: 1.6;">
        <li><strong>Download:</strong> <a href="{{.FormLink}}" style="color: #008000; font-weight: bold;">Click here to download your application form PDF</a>.</li>
        <li><strong>Fill &amp; Scan:</strong> Print and fill the form in BLOCK LETTERS. Scan it along with your KCSE Certificate, Leaving Certificate, National ID, and Birth Certificate.</li>
        <li><strong>Combine:</strong> Merge all documents into <strong>ONE SINGLE PDF</strong> in that specific order.</li>
        <li><strong>Upload:</strong> Visit our <a href="{{.PortalURL}}/check-status" style="color: #008000;">Status Portal</a> to upload the final PDF.</li>
      </ol>
    </div>
    <p>If you have any questions, please reply to this email or visit our admissions office.</p>
    <p>Best Regards,<br/>KSA Admissions Team</p>
  </div>
</div>`))

	correctionTmpl = html.Must(html.New("correction").Parse(`
<div style="font-family: sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #eee; border-radius: 10px;">
  <div style="background-color: #f59e0b; color: white; padding: 15px; border-radius: 8px 8px 0 0; text-align: center;">
    <h1 style="margin: 0;">Correction Required</h1>
  </div>
  <div style="padding: 20px;">
    <p>Dear {{.FullName}},</p>
    <p>Our admissions team has reviewed your application and noted that some information requires correction before we can proceed.</p>
    <div style="background-color: #fffbeb; padding: 15px; border-left: 4px solid #f59e0b; margin: 20px 0;">
      <h3 style="margin-top: 0; color: #92400e;">Admin Note:</h3>
      <p style="font-style: italic;">&quot;{{.AdminNote}}&quot;</p>
    </div>
    <p><strong>What to do next:</strong></p>
    <ol>
      <li>Visit the <a href="{{.PortalURL}}/check-status" style="color: #f59e0b; font-weight: bold;">Application Status Portal</a>.</li>
      <li>Log in with your National ID and Phone Number.</li>
      <li>Click on <strong>&quot;Edit Application &amp; Resubmit&quot;</strong>.</li>
      <li>Update the fields as requested and save.</li>
    </ol>
    <p>Please complete these corrections as soon as possible to avoid delays in your enrollment.</p>
    <p>Best Regards,<br/>KSA Admissions Team</p>
  </div>
</div>`))

	bulkTmpl = html.Must(html.New("bulk").Parse(`
<div style="font-family: sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #eee; border-radius: 10px;">
  <div style="background-color: #008000; color: white; padding: 15px; border-radius: 8px 8px 0 0; text-align: center;">
    <h1 style="margin: 0;">KSA Portal</h1>
  </div>
  <div style="padding: 20px;">
    <p>Dear {{.FullName}},</p>
    <div style="line-height: 1.6; color: #333;">{{.Body}}</div>
    <p style="margin-top: 30px; font-size: 12px; color: #888;">
      This is an official communication from the KSA Admissions Office.
      You can view your message history at <a href="{{.PortalURL}}/check-status">the status portal</a>.
    </p>
  </div>
</div>`))
)

// TrackLabel is the human-readable name of a track used in email subjects
// and bodies.
func TrackLabel(track admission.Track) string {
	if track == admission.TrackCertificate {
		return "Certificate"
	}
	return string(track)
}

// NewSubmissionConfirmation builds the post-submission email with the track
// form download link.
func NewSubmissionConfirmation(name, email string, track admission.Track, formLink, portalURL string) (*Message, error) {
	label := TrackLabel(track)

	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, confirmationData{
		FullName:   name,
		TrackLabel: label,
		FormLink:   formLink,
		PortalURL:  portalURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render confirmation email: %w", err)
	}

	return &Message{
		To:          Recipient{Name: name, Email: email},
		Subject:     fmt.Sprintf("Your KSA Application Form - %s", label),
		HTMLContent: buf.String(),
		TextContent: fmt.Sprintf("Dear %s, you have qualified for the %s track. Download your application form: %s", name, label, formLink),
	}, nil
}

// NewCorrectionRequest builds the action-required email sent when an
// application is returned for corrections.
func NewCorrectionRequest(name, email, adminNote, portalURL string) (*Message, error) {
	var buf bytes.Buffer
	err := correctionTmpl.Execute(&buf, correctionData{
		FullName:  name,
		AdminNote: adminNote,
		PortalURL: portalURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render correction email: %w", err)
	}

	return &Message{
		To:          Recipient{Name: name, Email: email},
		Subject:     "Action Required: Application Correction Needed",
		HTMLContent: buf.String(),
		TextContent: fmt.Sprintf("Dear %s, your application needs corrections: %s. Visit %s/check-status to resubmit.", name, adminNote, portalURL),
	}, nil
}

// NewBulkMessage builds an admin broadcast email. The plain-text body is
// escaped and newlines become line breaks.
func NewBulkMessage(name, email, subject, body, portalURL string) (*Message, error) {
	escaped := html.HTMLEscapeString(body)
	htmlBody := html.HTML(strings.ReplaceAll(escaped, "\n", "<br/>"))

	var buf bytes.Buffer
	err := bulkTmpl.Execute(&buf, bulkData{
		FullName:  name,
		Body:      htmlBody,
		PortalURL: portalURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render bulk email: %w", err)
	}

	return &Message{
		To:          Recipient{Name: name, Email: email},
		Subject:     subject,
		HTMLContent: buf.String(),
		TextContent: fmt.Sprintf("Dear %s,\n\n%s", name, body),
	}, nil
}

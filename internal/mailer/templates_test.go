package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksa-portal/admissions-api/internal/admission"
)

func TestTrackLabel(t *testing.T) {
	assert.Equal(t, "CBET", TrackLabel(admission.TrackCBET))
	assert.Equal(t, "DIPLOMA", TrackLabel(admission.TrackDiploma))
	assert.Equal(t, "Certificate", TrackLabel(admission.TrackCertificate))
}

func TestNewSubmissionConfirmation(t *testing.T) {
	msg, err := NewSubmissionConfirmation("Jane Wanjiku", "jane@example.com", admission.TrackDiploma, "https://forms.example/diploma.pdf", "https://portal.example")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", msg.To.Email)
	assert.Equal(t, "Your KSA Application Form - DIPLOMA", msg.Subject)
	assert.Contains(t, msg.HTMLContent, "Jane Wanjiku")
	assert.Contains(t, msg.HTMLContent, "https://forms.example/diploma.pdf")
	assert.Contains(t, msg.TextContent, "DIPLOMA")
}

func TestNewCorrectionRequest_EscapesNote(t *testing.T) {
	msg, err := NewCorrectionRequest("Jane", "jane@example.com", `fix <b>ID</b> photo`, "https://portal.example")
	require.NoError(t, err)

	assert.Equal(t, "Action Required: Application Correction Needed", msg.Subject)
	assert.NotContains(t, msg.HTMLContent, "<b>ID</b>")
	assert.Contains(t, msg.HTMLContent, "&lt;b&gt;ID&lt;/b&gt;")
}

func TestNewBulkMessage_NewlinesBecomeBreaks(t *testing.T) {
	msg, err := NewBulkMessage("Jane", "jane@example.com", "Orientation Day", "Line one\nLine two", "https://portal.example")
	require.NoError(t, err)

	assert.Equal(t, "Orientation Day", msg.Subject)
	assert.Contains(t, msg.HTMLContent, "Line one<br/>Line two")
	assert.Contains(t, msg.TextContent, "Line one\nLine two")
}

package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/ksa-portal/admissions-api/internal/config"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridService delivers email through the SendGrid v3 API
type SendgridService struct {
	key    string
	from   *sgmail.Email
	logger *logrus.Logger
}

var _ Service = (*SendgridService)(nil)

// NewSendgridService creates a SendGrid-backed mailer
func NewSendgridService(cfg *config.EmailConfig, logger *logrus.Logger) *SendgridService {
	return &SendgridService{
		key:    cfg.APIKey,
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

// Send delivers each message via the SendGrid API. A single failed message
// does not abort the rest of the batch.
func (svc *SendgridService) Send(ctx context.Context, messages ...*Message) error {
	var failed int

	for _, msg := range messages {
		if err := svc.send(ctx, msg); err != nil {
			failed++
			svc.logger.WithError(err).WithField("to", msg.To.Email).Error("Failed to send email")
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to deliver %d of %d emails", failed, len(messages))
	}

	return nil
}

func (svc *SendgridService) send(ctx context.Context, msg *Message) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)

	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Email))
	m.AddPersonalizations(p)

	if msg.TextContent != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	}
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}

	req := sendgrid.GetRequest(svc.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d: %s", res.StatusCode, res.Body)
	}

	return nil
}

package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ConsoleService logs messages instead of delivering them. Used in
// development when no SendGrid key is configured.
type ConsoleService struct {
	logger *logrus.Logger
}

var _ Service = (*ConsoleService)(nil)

// NewConsoleService creates a console mailer
func NewConsoleService(logger *logrus.Logger) *ConsoleService {
	return &ConsoleService{logger: logger}
}

// Send logs each message at info level
func (svc *ConsoleService) Send(_ context.Context, messages ...*Message) error {
	for _, msg := range messages {
		svc.logger.WithFields(logrus.Fields{
			"to":      msg.To.Email,
			"subject": msg.Subject,
		}).Info("Email (console mailer)")
		svc.logger.Debug(msg.TextContent)
	}
	return nil
}

package email

import (
	"context"

	"salesloop/crm/internal/config"
)

// Sender defines the interface for sending emails.
type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// LoggingSender is a mock implementation that just logs email details.
// Used in development when SMTP isn't configured.
type LoggingSender struct {
	cfg *config.Config
}

// Send logs the email details instead of sending.
func (s *LoggingSender) Send(ctx context.Context, to []string, subject, body string) error {
	config.Logger().WithFields(map[string]interface{}{
		"to":      to,
		"from":    s.cfg.SmtpFromAddress,
		"subject": subject,
	}).Info("email logged (not sent)")
	return nil
}

package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"salesloop/crm/internal/config"
)

// SMTPSender implements Sender over SMTP via gomail.
type SMTPSender struct {
	cfg    *config.Config
	dialer *gomail.Dialer
}

// NewSMTPSender creates a new SMTPSender. If no SMTP host is configured it
// falls back to a logging sender so development environments keep working.
func NewSMTPSender(cfg *config.Config) Sender {
	if cfg.SmtpHost == "" {
		config.Logger().Warn("SMTP host not configured, using logging email sender")
		return &LoggingSender{cfg: cfg}
	}
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SmtpHost, cfg.SmtpPort, cfg.SmtpUsername, cfg.SmtpPassword),
	}
}

// Send delivers one email to the given recipients.
func (s *SMTPSender) Send(ctx context.Context, to []string, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SmtpFromAddress)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %v failed: %w", to, err)
	}
	return nil
}

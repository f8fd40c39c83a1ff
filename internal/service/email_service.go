package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/relentron/website/internal/api/sanitization"
	"github.com/relentron/website/internal/config"
	"github.com/relentron/website/internal/models"
)

const senderName = "Relentron Enquiry"

// mailSender is satisfied by *gomail.Dialer
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService delivers enquiry notifications over SMTP (Gmail by default)
type EmailService struct {
	sender    mailSender
	from      string
	recipient string
}

// NewEmailService creates a new SMTP email service
func NewEmailService(cfg config.NotifyConfig) *EmailService {
	return &EmailService{
		sender:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass),
		from:      cfg.EmailUser,
		recipient: cfg.RecipientAddress(),
	}
}

func (s *EmailService) Name() string { return "smtp" }

// Notify sends the enquiry email. gomail has no context support, so the
// send runs in its own goroutine and ctx only bounds how long we wait.
func (s *EmailService) Notify(ctx context.Context, record *models.EnquiryRecord) error {
	if s.from == "" || s.recipient == "" {
		return fmt.Errorf("email account: %w", ErrNotConfigured)
	}

	m := s.buildMessage(record)

	done := make(chan error, 1)
	go func() {
		done <- s.sender.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send enquiry email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send enquiry email: %w", ctx.Err())
	}
}

func (s *EmailService) buildMessage(record *models.EnquiryRecord) *gomail.Message {
	email := renderEnquiryEmail(record)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, senderName)
	m.SetHeader("To", s.recipient)
	if record.Email != "" && !sanitization.HasHeaderBreak(record.Email) {
		m.SetHeader("Reply-To", record.Email)
	}
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Text)
	m.AddAlternative("text/html", email.HTML)
	return m
}

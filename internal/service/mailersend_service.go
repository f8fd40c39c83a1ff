package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mailersend/mailersend-go"

	"github.com/relentron/website/internal/config"
	"github.com/relentron/website/internal/models"
)

// MailerSendService delivers enquiry notifications through the MailerSend API
type MailerSendService struct {
	client    *mailersend.Mailersend
	from      mailersend.From
	recipient string
}

// NewMailerSendService creates a MailerSend-backed email service
func NewMailerSendService(cfg config.NotifyConfig) *MailerSendService {
	s := &MailerSendService{
		from: mailersend.From{
			Name:  senderName,
			Email: cfg.EmailUser,
		},
		recipient: cfg.RecipientAddress(),
	}
	if cfg.MailerSendAPIKey != "" {
		s.client = mailersend.NewMailersend(cfg.MailerSendAPIKey)
	}
	return s
}

func (s *MailerSendService) Name() string { return "mailersend" }

func (s *MailerSendService) Notify(ctx context.Context, record *models.EnquiryRecord) error {
	if s.client == nil || s.from.Email == "" || s.recipient == "" {
		return fmt.Errorf("mailersend (MAILERSEND_API_KEY, EMAIL_USER): %w", ErrNotConfigured)
	}

	email := renderEnquiryEmail(record)

	msg := s.client.Email.NewMessage()
	msg.SetFrom(s.from)
	msg.SetRecipients([]mailersend.Recipient{{Email: s.recipient}})
	msg.SetSubject(email.Subject)
	msg.SetText(email.Text)
	msg.SetHTML(email.HTML)

	res, err := s.client.Email.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send enquiry email: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

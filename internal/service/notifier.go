package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/relentron/website/internal/api/sanitization"
	"github.com/relentron/website/internal/logging"
	"github.com/relentron/website/internal/models"
)

// Notifier tells the operator about an accepted enquiry
type Notifier interface {
	Name() string
	Notify(ctx context.Context, record *models.EnquiryRecord) error
}

// MultiNotifier sends through every configured channel in turn.
// A failing channel does not stop the others.
type MultiNotifier struct {
	notifiers []Notifier
	timeout   time.Duration
}

// NewMultiNotifier creates a fan-out notifier; timeout bounds each channel
func NewMultiNotifier(timeout time.Duration, notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{
		notifiers: notifiers,
		timeout:   timeout,
	}
}

func (m *MultiNotifier) Name() string {
	names := make([]string, 0, len(m.notifiers))
	for _, n := range m.notifiers {
		names = append(names, n.Name())
	}
	return strings.Join(names, "+")
}

// Len returns the number of channels
func (m *MultiNotifier) Len() int {
	return len(m.notifiers)
}

func (m *MultiNotifier) Notify(ctx context.Context, record *models.EnquiryRecord) error {
	if len(m.notifiers) == 0 {
		return fmt.Errorf("notification channels: %w", ErrNotConfigured)
	}

	var errs []error
	for _, n := range m.notifiers {
		if err := m.notifyOne(ctx, n, record); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiNotifier) notifyOne(ctx context.Context, n Notifier, record *models.EnquiryRecord) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return n.Notify(ctx, record)
}

// enquiryEmail is the rendered operator notification
type enquiryEmail struct {
	Subject string
	HTML    string
	Text    string
}

func renderEnquiryEmail(record *models.EnquiryRecord) enquiryEmail {
	subject := fmt.Sprintf("New Enquiry from %s", record.Name)

	html := fmt.Sprintf(`
<h2>New Enquiry Received</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Service:</strong> %s</p>
<p><strong>Message:</strong><br>%s</p>
<p style="color:#888;font-size:12px">Received %s</p>
`,
		sanitization.EscapeHTML(record.Name),
		sanitization.EscapeHTML(record.Email),
		sanitization.EscapeHTML(record.Phone),
		sanitization.EscapeHTML(record.ServiceLabel()),
		sanitization.EscapeMultiline(record.Message),
		record.CreatedAt.Format(time.RFC1123),
	)

	text := fmt.Sprintf(
		"New Enquiry Received\n\nName: %s\nEmail: %s\nPhone: %s\nService: %s\n\nMessage:\n%s\n\nReceived %s\n",
		record.Name,
		record.Email,
		record.Phone,
		record.ServiceLabel(),
		record.Message,
		record.CreatedAt.Format(time.RFC1123),
	)

	return enquiryEmail{Subject: subject, HTML: html, Text: text}
}

// LogNotifier writes the notification to the log. Used in development.
type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(ctx context.Context, record *models.EnquiryRecord) error {
	email := renderEnquiryEmail(record)
	n.logger.Info("[NOTIFY] %s\n%s", email.Subject, email.Text)
	return nil
}

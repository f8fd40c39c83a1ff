package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/relentron/website/internal/api/sanitization"
	"github.com/relentron/website/internal/config"
	"github.com/relentron/website/internal/models"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramService handles sending messages to Telegram
type TelegramService struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// NewTelegramService creates a new Telegram service
func NewTelegramService(cfg config.NotifyConfig) *TelegramService {
	return &TelegramService{
		botToken: cfg.TelegramToken,
		chatID:   cfg.TelegramChatID,
		apiBase:  telegramAPIBase,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether the bot token and chat ID are both set
func (s *TelegramService) Enabled() bool {
	return s.botToken != "" && s.chatID != ""
}

func (s *TelegramService) Name() string { return "telegram" }

// telegramMessage represents a Telegram API message
type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Notify sends the enquiry to the operator chat
func (s *TelegramService) Notify(ctx context.Context, record *models.EnquiryRecord) error {
	if !s.Enabled() {
		return fmt.Errorf("telegram bot token or chat ID: %w", ErrNotConfigured)
	}

	text := fmt.Sprintf(
		"🆕 <b>New Enquiry</b>\n\n"+
			"<b>Name:</b> %s\n"+
			"<b>Email:</b> %s\n"+
			"<b>Phone:</b> %s\n"+
			"<b>Service:</b> %s\n"+
			"<b>Message:</b>\n%s",
		sanitization.EscapeHTML(record.Name),
		sanitization.EscapeHTML(record.Email),
		sanitization.EscapeHTML(record.Phone),
		sanitization.EscapeHTML(record.ServiceLabel()),
		sanitization.EscapeHTML(record.Message),
	)

	payload := telegramMessage{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

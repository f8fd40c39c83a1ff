package config

import (
	"strings"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Recaptcha.Timeout != 5*time.Second {
		t.Errorf("Recaptcha.Timeout = %v, want 5s", cfg.Recaptcha.Timeout)
	}
	if cfg.Mongo.WriteTimeout != 5*time.Second {
		t.Errorf("Mongo.WriteTimeout = %v, want 5s", cfg.Mongo.WriteTimeout)
	}
	if cfg.Notify.Timeout != 10*time.Second {
		t.Errorf("Notify.Timeout = %v, want 10s", cfg.Notify.Timeout)
	}
	if cfg.Notify.SMTPHost != "smtp.gmail.com" || cfg.Notify.SMTPPort != 587 {
		t.Errorf("SMTP = %s:%d, want smtp.gmail.com:587", cfg.Notify.SMTPHost, cfg.Notify.SMTPPort)
	}
	if !cfg.StrictValidation {
		t.Error("StrictValidation should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("RECAPTCHA_TIMEOUT", "2s")
	t.Setenv("EMAIL_PROVIDER", "MailerSend")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENQUIRY_STRICT_VALIDATION", "false")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Recaptcha.Timeout != 2*time.Second {
		t.Errorf("Recaptcha.Timeout = %v, want 2s", cfg.Recaptcha.Timeout)
	}
	if cfg.Notify.Provider != ProviderMailerSend {
		t.Errorf("Provider = %q, want %q", cfg.Notify.Provider, ProviderMailerSend)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.StrictValidation {
		t.Error("StrictValidation should be false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing mongo uri",
			cfg:     Config{Notify: NotifyConfig{Provider: ProviderSMTP}, RateRPS: 1, RateBurst: 1},
			wantErr: "MONGODB_URI",
		},
		{
			name:    "unknown provider",
			cfg:     Config{Notify: NotifyConfig{Provider: "pigeon"}, Mongo: MongoConfig{URI: "mongodb://x"}, RateRPS: 1, RateBurst: 1},
			wantErr: "EMAIL_PROVIDER",
		},
		{
			name: "production without secret",
			cfg: Config{
				Environment: "production",
				Notify:      NotifyConfig{Provider: ProviderLog},
				Mongo:       MongoConfig{URI: "mongodb://x"},
				RateRPS:     1,
				RateBurst:   1,
			},
			wantErr: "RECAPTCHA_SECRET_KEY",
		},
		{
			name:    "zero rate",
			cfg:     Config{Notify: NotifyConfig{Provider: ProviderLog}, Mongo: MongoConfig{URI: "mongodb://x"}},
			wantErr: "ENQUIRY_RATE_RPS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRecipientAddress(t *testing.T) {
	n := NotifyConfig{EmailUser: "site@relentron.com"}
	if got := n.RecipientAddress(); got != "site@relentron.com" {
		t.Errorf("RecipientAddress() = %q, want fallback to EMAIL_USER", got)
	}
	n.Recipient = "ops@relentron.com"
	if got := n.RecipientAddress(); got != "ops@relentron.com" {
		t.Errorf("RecipientAddress() = %q, want NOTIFY_EMAIL_TO", got)
	}
}

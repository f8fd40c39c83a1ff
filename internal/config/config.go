package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment    string `env:"ENV" envDefault:"development"`
	Port           string `env:"API_PORT" envDefault:"8080"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile        string `env:"LOG_FILE"`
	LogRequests    bool   `env:"LOG_REQUESTS" envDefault:"false"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	// Verification Gateway
	Recaptcha RecaptchaConfig

	// Persistence Store
	Mongo MongoConfig

	// Notification Dispatcher
	Notify NotifyConfig

	// Intake
	StrictValidation bool `env:"ENQUIRY_STRICT_VALIDATION" envDefault:"true"`
	RateRPS          int  `env:"ENQUIRY_RATE_RPS" envDefault:"1"`
	RateBurst        int  `env:"ENQUIRY_RATE_BURST" envDefault:"5"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// RecaptchaConfig configures the captcha verification call
type RecaptchaConfig struct {
	SecretKey string        `env:"RECAPTCHA_SECRET_KEY"`
	SiteKey   string        `env:"RECAPTCHA_SITE_KEY"`
	VerifyURL string        `env:"RECAPTCHA_VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	Timeout   time.Duration `env:"RECAPTCHA_TIMEOUT" envDefault:"5s"`
	MinScore  float64       `env:"RECAPTCHA_MIN_SCORE" envDefault:"0"`
}

// MongoConfig configures the enquiry store
type MongoConfig struct {
	URI          string        `env:"MONGODB_URI"`
	Database     string        `env:"MONGODB_DATABASE" envDefault:"relentron"`
	WriteTimeout time.Duration `env:"MONGODB_WRITE_TIMEOUT" envDefault:"5s"`
}

// NotifyConfig configures every notification channel
type NotifyConfig struct {
	Provider         string        `env:"EMAIL_PROVIDER" envDefault:"smtp"`
	EmailUser        string        `env:"EMAIL_USER"`
	EmailPass        string        `env:"EMAIL_PASS"`
	SMTPHost         string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort         int           `env:"SMTP_PORT" envDefault:"587"`
	Recipient        string        `env:"NOTIFY_EMAIL_TO"`
	MailerSendAPIKey string        `env:"MAILERSEND_API_KEY"`
	Timeout          time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`
	TelegramToken    string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string        `env:"TELEGRAM_CHAT_ID"`
	NATSURL          string        `env:"NATS_URL"`
}

// Email providers
const (
	ProviderSMTP       = "smtp"
	ProviderMailerSend = "mailersend"
	ProviderLog        = "log"
)

// RecipientAddress is the operator inbox, falling back to the sending account
func (n NotifyConfig) RecipientAddress() string {
	if n.Recipient != "" {
		return n.Recipient
	}
	return n.EmailUser
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{
		"internal/config/env/.env.development",
		".env",
	}

	// If ENV is set, try to load that specific file first
	envName := os.Getenv("ENV")
	if envName != "" {
		envLocations = append([]string{fmt.Sprintf("internal/config/env/.env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv.Load never overrides variables already in the environment
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	// Set default log file if not set
	if cfg.LogFile == "" {
		if cfg.IsProduction() {
			cfg.LogFile = "/app/logs/api.log"
		} else {
			cfg.LogFile = "./logs/api.log"
		}
	}

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return cfg, nil
}

// Parse reads the configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Notify.Provider = strings.ToLower(cfg.Notify.Provider)
	return cfg, nil
}

// Validate checks the settings the intake pipeline cannot run without
func (c *Config) Validate() error {
	var errs []error

	switch c.Notify.Provider {
	case ProviderSMTP, ProviderMailerSend, ProviderLog:
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_PROVIDER %q", c.Notify.Provider))
	}

	if c.RateRPS <= 0 || c.RateBurst <= 0 {
		errs = append(errs, errors.New("ENQUIRY_RATE_RPS and ENQUIRY_RATE_BURST must be positive"))
	}

	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGODB_URI is required"))
	}

	if c.IsProduction() && c.Recaptcha.SecretKey == "" {
		errs = append(errs, errors.New("RECAPTCHA_SECRET_KEY is required in production"))
	}

	return errors.Join(errs...)
}

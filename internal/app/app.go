// Package app assembles the intake API from configuration. Both the
// standalone server binary and the relentron CLI start it through Run.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/relentron/website/internal/config"
	"github.com/relentron/website/internal/db"
	"github.com/relentron/website/internal/logging"
	"github.com/relentron/website/internal/models"
	"github.com/relentron/website/internal/repository"
	"github.com/relentron/website/internal/server"
	"github.com/relentron/website/internal/service"
	"github.com/relentron/website/internal/tasks"
	"github.com/relentron/website/internal/telemetry"
)

// LoggingConfig maps application settings onto the logger
func LoggingConfig(cfg *config.Config) *logging.Config {
	return &logging.Config{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Requests:   cfg.LogRequests,
	}
}

// BuildNotifier creates the configured notification channels. The returned
// cleanup closes connections the channels hold open.
func BuildNotifier(cfg *config.Config, logger *logging.Logger) (*service.MultiNotifier, func(), error) {
	var notifiers []service.Notifier
	cleanup := func() {}

	switch cfg.Notify.Provider {
	case config.ProviderSMTP:
		notifiers = append(notifiers, service.NewEmailService(cfg.Notify))
	case config.ProviderMailerSend:
		notifiers = append(notifiers, service.NewMailerSendService(cfg.Notify))
	case config.ProviderLog:
		notifiers = append(notifiers, service.NewLogNotifier(logger))
	default:
		return nil, cleanup, fmt.Errorf("unknown email provider %q", cfg.Notify.Provider)
	}

	if telegram := service.NewTelegramService(cfg.Notify); telegram.Enabled() {
		notifiers = append(notifiers, telegram)
	}

	if cfg.Notify.NATSURL != "" {
		publisher, err := service.NewEventPublisher(cfg.Notify.NATSURL)
		if err != nil {
			// Events are best effort, the enquiry email still goes out
			logger.Warn("Enquiry events disabled: %v", err)
		} else {
			notifiers = append(notifiers, publisher)
			cleanup = publisher.Close
		}
	}

	return service.NewMultiNotifier(cfg.Notify.Timeout, notifiers...), cleanup, nil
}

// Run connects every dependency and serves until ctx is cancelled
func Run(ctx context.Context, cfg *config.Config) error {
	logger := logging.GetLogger()
	logger.Info("Starting server in %s mode", cfg.Environment)

	shutdownTracing, err := telemetry.Init(ctx, cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("Failed to flush traces: %v", err)
		}
	}()

	database, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.Close(closeCtx); err != nil {
			logger.Warn("Failed to close database: %v", err)
		}
	}()

	monitor := tasks.NewStoreMonitor(database, tasks.DefaultStoreCheckInterval, logger)
	monitor.Start()
	defer monitor.Stop()

	repo := repository.NewEnquiryRepository(database.Collection(models.EnquiryCollection), cfg.Mongo.WriteTimeout)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	notifier, closeNotifier, err := BuildNotifier(cfg, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()
	logger.Info("Enquiry notifications via %s", notifier.Name())

	if cfg.Recaptcha.SecretKey == "" {
		logger.Warn("RECAPTCHA_SECRET_KEY is not set, every submission will be rejected")
	}

	enquiries := service.NewEnquiryService(
		service.NewRecaptchaService(cfg.Recaptcha),
		repo,
		notifier,
		logger,
		service.WithStrictValidation(cfg.StrictValidation),
	)

	srv := server.NewServer(cfg, server.Dependencies{
		Enquiry: enquiries,
		DB:      database,
	})

	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

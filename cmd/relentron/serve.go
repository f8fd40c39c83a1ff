package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relentron/website/internal/app"
	"github.com/relentron/website/internal/config"
	"github.com/relentron/website/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the enquiry intake API",
	Long: `Run the enquiry intake API server. Settings come from the environment
and from .env files, exactly as for the standalone server binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logging.Configure(app.LoggingConfig(cfg))
		logger := logging.GetLogger()
		defer logger.Close()

		ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return app.Run(ctx, cfg)
	},
}

// background is used when cobra was executed without a context
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

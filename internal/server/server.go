package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/relentron/website/internal/api/handlers"
	"github.com/relentron/website/internal/api/middleware"
	"github.com/relentron/website/internal/config"
	"github.com/relentron/website/internal/logging"
	"github.com/relentron/website/internal/server/routes"
	"github.com/relentron/website/internal/telemetry"
	"github.com/relentron/website/internal/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// ShutdownTimeout bounds how long in-flight enquiries get to finish
const ShutdownTimeout = 30 * time.Second

// Dependencies are the services the HTTP layer calls into
type Dependencies struct {
	Enquiry handlers.EnquirySubmitter
	DB      handlers.Pinger
}

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	cfg        *config.Config
	logger     *logging.Logger
	httpServer *http.Server
}

// NewServer creates a new server instance with every route registered
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	switch cfg.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	// Create a new engine without default middleware
	router := gin.New()

	logger := logging.GetLogger()

	origins, invalid := utils.ParseOrigins(cfg.AllowedOrigins)
	for _, o := range invalid {
		logger.Warn("Ignoring invalid ALLOWED_ORIGINS entry %q", o)
	}

	var extra []gin.HandlerFunc
	if cfg.OTLPEndpoint != "" {
		extra = append(extra, otelgin.Middleware(telemetry.ServiceName))
	}

	routes.SetupGlobalMiddleware(router, logger, routes.GlobalOptions{
		CORS: middleware.CORSConfig{
			AllowedOrigins: origins,
			Development:    !cfg.IsProduction(),
		},
		Production: cfg.IsProduction(),
		Extra:      extra,
	})

	routes.Setup(router,
		&routes.Handlers{
			Health:  handlers.NewHealthHandler(deps.DB),
			Enquiry: handlers.NewEnquiryHandler(deps.Enquiry, cfg.Recaptcha.SiteKey),
		},
		&routes.Middleware{
			Validation: middleware.NewValidationMiddleware(),
			RateLimit: middleware.RateLimitConfig{
				RPS:   cfg.RateRPS,
				Burst: cfg.RateBurst,
			},
			MaxBody: middleware.DefaultMaxBodySize,
		},
	)

	return &Server{
		router: router,
		cfg:    cfg,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then stops accepting connections and
// waits for in-flight requests to finish
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening on :%s", s.cfg.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

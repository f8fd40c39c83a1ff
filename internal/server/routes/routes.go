package routes

import (
	"net/http"

	"github.com/relentron/website/internal/api/dto/common"
	apimiddleware "github.com/relentron/website/internal/api/middleware"
	"github.com/relentron/website/internal/logging"
	"github.com/relentron/website/internal/metrics"
	"github.com/relentron/website/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	logger := logging.GetLogger()

	// Health and metrics (no rate limit)
	SetupHealthRoutes(router, h.Health)

	api := router.Group("/api")
	SetupEnquiryRoutes(api, h.Enquiry, m)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse(common.ErrCodeNotFound, "Not Found"))
	})

	logger.Info("All routes have been set up successfully")
}

// GlobalOptions configures the middleware applied to every route
type GlobalOptions struct {
	CORS       apimiddleware.CORSConfig
	Production bool
	// Extra runs right after request ID assignment, e.g. tracing
	Extra []gin.HandlerFunc
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, logger *logging.Logger, opts GlobalOptions) {
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(opts.Extra...)
	router.Use(metrics.Middleware())
	router.Use(apimiddleware.RequestLogger(logger))
	router.Use(apimiddleware.SecurityHeaders(opts.Production))
	router.Use(apimiddleware.CORS(opts.CORS))
}

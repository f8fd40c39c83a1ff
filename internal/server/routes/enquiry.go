package routes

import (
	"net/http"

	"github.com/relentron/website/internal/api/handlers"
	"github.com/relentron/website/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEnquiryRoutes configures the public enquiry endpoints
func SetupEnquiryRoutes(router *gin.RouterGroup, enquiry *handlers.EnquiryHandler, m *Middleware) {
	group := router.Group("/enquiry")
	{
		// Public endpoint with per-IP rate limiting (no auth required)
		group.POST("",
			middleware.RateLimitMiddleware(m.RateLimit),
			middleware.PreserveRequestBody(m.MaxBody),
			m.Validation.ValidateEnquiryRequest(),
			enquiry.Submit,
		)

		group.Match([]string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		}, "", enquiry.MethodNotAllowed)

		group.GET("/config", enquiry.Config)
	}
}

package routes

import (
	"github.com/relentron/website/internal/api/handlers"
	"github.com/relentron/website/internal/api/middleware"
)

// Handlers contains all the route handlers
type Handlers struct {
	Health  *handlers.HealthHandler
	Enquiry *handlers.EnquiryHandler
}

// Middleware contains the route-specific middleware
type Middleware struct {
	Validation *middleware.ValidationMiddleware
	RateLimit  middleware.RateLimitConfig
	MaxBody    int64
}

package middleware

import (
	"net/http"

	"github.com/relentron/website/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// CORSConfig controls which browser origins may call the API
type CORSConfig struct {
	AllowedOrigins []string
	// Development reflects any origin when no list is configured
	Development bool
}

func (cfg CORSConfig) allows(origin string) bool {
	if len(cfg.AllowedOrigins) == 0 {
		return cfg.Development
	}
	for _, allowed := range cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// CORS middleware
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Non-browser clients (CLI, curl) send no Origin
		if origin == "" {
			c.Next()
			return
		}

		if !cfg.allows(origin) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				common.NewErrorResponse(common.ErrCodeForbidden, "Origin not allowed"))
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Request-ID, X-Requested-With")
		h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		h.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID, Retry-After")
		h.Set("Access-Control-Max-Age", "86400") // 24 hours

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

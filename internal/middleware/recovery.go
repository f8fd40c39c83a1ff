package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/relentron/website/internal/api/dto/common"
	"github.com/relentron/website/internal/logging"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 response and logs the stack trace
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("[PANIC] %s %s | %s | %s | %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					c.ClientIP(),
					c.GetString(RequestIDKey),
					err,
					debug.Stack(),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					common.NewErrorResponse(common.ErrCodeInternalServer, "Internal Server Error"))
			}
		}()

		c.Next()
	}
}

package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/relentron/website/internal/api/constants"
	"github.com/relentron/website/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize bounds enquiry payloads
const DefaultMaxBodySize = 64 * 1024

// PreserveRequestBody middleware reads the request body once, enforcing
// maxBytes, and restores it so validators and handlers can both read it
func PreserveRequestBody(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}

	return func(c *gin.Context) {
		// Only process requests that carry a body
		if c.Request.Body == nil || (c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch) {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			abortTooLarge(c)
			return
		}

		bodyBytes, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				abortTooLarge(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest,
				common.NewErrorResponse(common.ErrCodeBadRequest, "Error reading request body"))
			return
		}

		// Restore the body for subsequent middleware
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		// Store body in context for potential use later
		c.Set(constants.ContextKeyRawBody, bodyBytes)

		c.Next()
	}
}

func abortTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
		common.NewErrorResponse(common.ErrCodeTooLarge, "Request body too large"))
}

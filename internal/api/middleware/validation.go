package middleware

import (
	"net/http"

	"github.com/relentron/website/internal/api/constants"
	"github.com/relentron/website/internal/api/dto/common"
	"github.com/relentron/website/internal/models"

	"github.com/gin-gonic/gin"
)

// ValidationMiddleware decodes request bodies before they reach handlers.
// Field rules live in the intake service so every client gets the same checks.
type ValidationMiddleware struct{}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{}
}

// ValidateEnquiryRequest decodes the enquiry JSON body into the context
func (m *ValidationMiddleware) ValidateEnquiryRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EnquiryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				common.NewErrorResponse(common.ErrCodeBadRequest, "Invalid request body"))
			return
		}

		c.Set(constants.ContextKeyEnquiry, &req)
		c.Next()
	}
}

package utils

import (
	"github.com/relentron/website/internal/api/dto/common"
	"github.com/relentron/website/internal/logging"

	"github.com/gin-gonic/gin"
)

// LogError logs an error with a message using the singleton logger
func LogError(err error, message string) {
	logger := logging.GetLogger()
	logger.Error("%s: %v", message, err)
}

// HandleAPIError is a utility function for consistent error handling across the API.
// Details of server errors are only exposed outside release mode.
func HandleAPIError(c *gin.Context, err error, status int, code common.ErrorCode, message string) {
	HandleAPIErrorWithFields(c, err, status, code, message, nil)
}

// HandleAPIErrorWithFields is HandleAPIError with a per-field error map
func HandleAPIErrorWithFields(c *gin.Context, err error, status int, code common.ErrorCode, message string, fields map[string]string) {
	logger := logging.GetLogger()
	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		status,
		message,
		err,
	)

	resp := common.NewErrorResponse(code, message)
	resp.Errors = fields
	if err != nil && status >= 500 && gin.Mode() != gin.ReleaseMode {
		resp.Error = err.Error()
	}

	c.AbortWithStatusJSON(status, resp)
}

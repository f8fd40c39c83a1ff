package utils

import (
	"net/http"

	"github.com/relentron/website/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleSuccess sends a success response with a message
func HandleSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(message))
}

// HandleData sends a bare JSON document
func HandleData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

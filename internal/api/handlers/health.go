package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/relentron/website/internal/api/dto/common"
	"github.com/relentron/website/internal/utils"
	"github.com/relentron/website/internal/version"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *db.Database
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	// Test DB connection
	if err := h.db.Ping(ctx); err != nil {
		utils.HandleAPIError(c, err, http.StatusServiceUnavailable, common.ErrCodeUnavailable, "Database connection error")
		return
	}

	utils.HandleSuccess(c, "Health check OK")
}

// Version reports the running build
func (h *HealthHandler) Version(c *gin.Context) {
	utils.HandleData(c, version.GetBuildInfo())
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vacantes/internal/app/models/dto"
)

// Pinger reports whether a backing store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Ping is a bare liveness probe
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}

// Health checks the database
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.ErrorResponse "Database unavailable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Database unavailable")
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"status": "ok", "database": "up"}, "")
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"yelocar/internal/utils"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 3 * time.Second

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	version  string
	database Pinger
	optional map[string]Pinger
}

// NewHealthHandler reports unhealthy only when database fails. The optional
// dependencies are reported but never fail the check.
func NewHealthHandler(version string, database Pinger, optional map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		version:  version,
		database: database,
		optional: optional,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	checks := map[string]string{"database": "ok"}
	if err := h.database.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, utils.APIResponse{
			Status:    utils.StatusError,
			Error:     &utils.APIError{Code: "UNAVAILABLE", Message: utils.ErrOffline, Details: checks},
			Timestamp: time.Now(),
		})
		return
	}

	for name, p := range h.optional {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	utils.SuccessResponse(c, "healthy", gin.H{
		"version": h.version,
		"checks":  checks,
	})
}

package restapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sentrix/internal/app/port"
)

// Pinger reports datastore reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /api/health.
type HealthHandler struct {
	db      Pinger
	missing []string
	version string
	started time.Time
	logger  port.Logger
}

// NewHealthHandler builds the health endpoint. db may be nil when the datastore could not be
// opened at start-up; missing lists required settings that are not configured.
func NewHealthHandler(db Pinger, missing []string, version string, l port.Logger) *HealthHandler {
	return &HealthHandler{db: db, missing: missing, version: version, started: time.Now(), logger: l}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	database := h.db != nil
	if database {
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("Health check: datastore unavailable", "error", err)
			database = false
		}
	}
	environment := len(h.missing) == 0

	status, code := "healthy", http.StatusOK
	if !database || !environment {
		status, code = "unhealthy", http.StatusInternalServerError
	}

	body := gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": gin.H{
			"database":    database,
			"environment": environment,
		},
		"version": h.version,
		"uptime":  time.Since(h.started).Seconds(),
	}
	if !environment {
		body["missing"] = h.missing
	}
	c.JSON(code, body)
}

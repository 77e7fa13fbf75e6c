package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/flexprice/billingsession/internal/logger"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger *logger.Logger
}

// NewHealthHandler builds the liveness handler. db may be nil, in which case
// only the process itself is reported.
func NewHealthHandler(
	db Pinger,
	logger *logger.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithContext(ctx).Errorw("health check failed", "component", "postgres", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "postgres": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "postgres": "up"})
}

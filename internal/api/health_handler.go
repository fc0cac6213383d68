package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/allrails/api/internal/api/shared"
	"github.com/allrails/api/internal/platform/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the health check endpoint.
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler with the given dependencies.
func NewHealthHandler(db Pinger, log *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: log.With("handler", "health"),
	}
}

// Check handles GET /health. It verifies database connectivity and reports
// a degraded status with 503 when the database is unreachable.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.db.PingContext(ctx); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("health check failed",
			"error", err)
		resp.Status = "degraded"
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, resp)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

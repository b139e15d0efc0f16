package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

// BreakerReporter exposes a provider circuit breaker state.
type BreakerReporter interface {
	State() string
}

type HealthHandler struct {
	db       pinger
	breakers map[string]BreakerReporter
}

func NewHealthHandler(db pinger, breakers map[string]BreakerReporter) *HealthHandler {
	return &HealthHandler{db: db, breakers: breakers}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness fails only on the database. Provider breakers are reported but
// an open breaker does not take the instance out of rotation.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok"}
	httpStatus := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		slog.Warn("readiness check failed: database unreachable", "error", err)
		checks["database"] = "down"
		httpStatus = http.StatusServiceUnavailable
	}

	for name, b := range h.breakers {
		checks[name] = b.State()
	}

	overallStatus := "ok"
	if httpStatus != http.StatusOK {
		overallStatus = "down"
	}

	RespondJSON(w, httpStatus, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

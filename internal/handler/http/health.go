package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type StorePinger interface {
	Ping(ctx context.Context) error
}

// StorePingFunc adapts a function to StorePinger.
type StorePingFunc func(ctx context.Context) error

func (f StorePingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthChecker struct {
	store  StorePinger
	driver string
	log    *slog.Logger
}

func NewHealthChecker(store StorePinger, driver string, log *slog.Logger) *HealthChecker {
	return &HealthChecker{store: store, driver: driver, log: log}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.DebugContext(r.Context(), "Performing health checks...")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"driver": h.driver}
	overallStatus := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		status["store"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(r.Context(), "Health check failed: store ping", "error", err)
	} else {
		status["store"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(overallStatus)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to write health check response", "error", err)
	}
}

package api

import (
	"net/http"
	"time"

	"github.com/RicheySon/smartcart-akedo/internal/api/respond"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	probe func() bool
}

// NewHealthHandler creates a health handler. probe reports whether the
// persistence layer is usable; nil means always healthy.
func NewHealthHandler(probe func() bool) *HealthHandler {
	if probe == nil {
		probe = func() bool { return true }
	}
	return &HealthHandler{probe: probe}
}

// CheckHealth handles GET /api/health.
// Always returns 200; the body reports healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !h.probe() {
		status = "unhealthy"
	}
	respond.WriteData(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

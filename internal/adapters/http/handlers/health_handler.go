package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

// readinessResponse is the body of GET /health/ready. Checks maps each
// registered component name to "ok" or its failure message.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler handles liveness and readiness HTTP endpoints.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a new HealthHandler with the given health registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. Always returns 200 OK.
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/health/live [get]
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready. Returns 200 if every registered check
// passes, including the todo store, and 503 if any check fails.
//
//	@Summary	Readiness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	readinessResponse
//	@Failure	503	{object}	readinessResponse
//	@Router		/health/ready [get]
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	resp := readinessResponse{
		Status: statusReady,
		Checks: make(map[string]string, len(results)),
	}
	code := http.StatusOK
	for name, err := range results {
		if err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = statusNotReady
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = statusOK
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, code, resp)
}

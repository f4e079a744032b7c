package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthStatus is the probe response payload
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type HealthHandler struct {
	*BaseHandler
	version string
	pool    *pgxpool.Pool // For readiness check
}

func NewHealthHandler(base *BaseHandler, version string, pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		version:     version,
		pool:        pool,
	}
}

// GetLiveness implements the liveness probe endpoint. No external
// dependencies; if we can respond, we're alive.
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	response := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

// GetReadiness implements the readiness probe endpoint, checking all
// critical dependencies
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	response := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
		Checks:    map[string]string{},
	}
	httpStatus := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		response.Checks["database"] = "down"
		response.Status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	} else {
		response.Checks["database"] = "up"
	}

	h.WriteJSONResponse(w, r, response, httpStatus)
}

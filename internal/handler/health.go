package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// ReadinessTimeout bounds each dependency ping
const ReadinessTimeout = 2 * time.Second

// Dependency is a backing service checked by /readyz.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: HealthStatusOK})
	}
}

// HandleReadyz pings every dependency in parallel and reports 503 if any fails.
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(deps ...Dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		results := make([]error, len(deps))
		var wg sync.WaitGroup
		for i, dep := range deps {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = dep.Ping(ctx)
			}()
		}
		wg.Wait()

		resp := HealthResponse{Status: HealthStatusOK, Checks: make(map[string]string, len(deps))}
		for i, dep := range deps {
			if results[i] != nil {
				slog.Error(LogMsgReadinessFailed, "dependency", dep.Name, "error", results[i])
				resp.Status = HealthStatusUnavailable
				resp.Checks[dep.Name] = HealthStatusUnavailable
				continue
			}
			resp.Checks[dep.Name] = HealthStatusOK
		}

		status := http.StatusOK
		if resp.Status != HealthStatusOK {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, resp)
	}
}

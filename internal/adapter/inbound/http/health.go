package http

import (
	"encoding/json"
	"net/http"

	"github.com/s2t-dev/s2t-mcp/internal/domain/session"
)

// HealthResponse is the JSON body of the /health endpoint.
type HealthResponse struct {
	Status   string        `json:"status"`
	Sessions SessionCounts `json:"sessions"`
	Version  string        `json:"version,omitempty"`
}

// SessionCounts reports live sessions per transport binding.
type SessionCounts struct {
	Streaming int `json:"streaming"`
	Legacy    int `json:"legacy"`
}

// HealthChecker reports liveness and session counts.
type HealthChecker struct {
	store   *session.Store
	legacy  *session.LegacyStore
	version string
}

// NewHealthChecker creates a HealthChecker over the two session stores.
func NewHealthChecker(store *session.Store, legacy *session.LegacyStore, version string) *HealthChecker {
	return &HealthChecker{store: store, legacy: legacy, version: version}
}

// Check builds the current health snapshot.
func (h *HealthChecker) Check() HealthResponse {
	return HealthResponse{
		Status: "ok",
		Sessions: SessionCounts{
			Streaming: h.store.Len(),
			Legacy:    h.legacy.Len(),
		},
		Version: h.version,
	}
}

// Handler returns the HTTP handler for /health.
func (h *HealthChecker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(h.Check())
	})
}

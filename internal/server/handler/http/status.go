// Package http provides the health-check and status endpoints that
// keep the bot deployable behind platform health probes.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hoyolink/hoyolink/internal/store"
)

// StatusHandler serves health and status requests.
type StatusHandler struct {
	// Store is queried for the linked-user count on /status.
	Store store.Repository
	// Version is the build version reported on /status.
	Version string

	started time.Time
}

// NewStatusHandler constructs a StatusHandler.
func NewStatusHandler(st store.Repository, version string) *StatusHandler {
	return &StatusHandler{Store: st, Version: version, started: time.Now()}
}

// Health handles GET / and GET /healthz with a bare 200 OK.
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Status handles GET /status with a JSON snapshot: build version,
// uptime and the number of stored user records.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.Count(r.Context())
	if err != nil {
		http.Error(w, "store unavailable", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"status":  "ok",
		"version": h.Version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"users":   users,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

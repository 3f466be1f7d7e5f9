package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"github.com/hoyolink/hoyolink/internal/middleware"
)

// NewRouter constructs the HTTP handler for the health server.
//
// Routes:
//
//	GET /         → StatusHandler.Health
//	GET /healthz  → StatusHandler.Health
//	GET /status   → StatusHandler.Status
//
// Every request is logged through the zap middleware.
func NewRouter(statusHandler *StatusHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/", statusHandler.Health)
	r.Get("/healthz", statusHandler.Health)
	r.Get("/status", statusHandler.Status)

	return r
}

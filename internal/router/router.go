// Package router sets up the HTTP routes and middleware chain for the
// soyview server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"soyview/internal/handlers"
	"soyview/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(scripts *handlers.Scripts) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	// Compiled templates: /soy/{templateFileName}.js, names may be nested.
	r.Get("/soy/*", scripts.TemplateJS)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

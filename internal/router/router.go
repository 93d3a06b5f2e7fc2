// Package router sets up all HTTP routes and middleware chains for the
// curator API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"postcurator/internal/handlers"
	"postcurator/internal/middleware"
)

// Options carries the handlers and middleware the router wires up. Health,
// Metrics, Observer and RateLimiter are optional.
type Options struct {
	API         *handlers.API
	Health      http.Handler
	Metrics     http.Handler
	Observer    middleware.HTTPObserver
	RateLimiter *middleware.RateLimiter
	CORSOrigins []string
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. Recoverer sits inside
	// Logger and Instrument so recovered panics are logged and counted as 500.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	if opts.Observer != nil {
		r.Use(middleware.Instrument(opts.Observer))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(opts.CORSOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	// Operational endpoints are not rate limited.
	if opts.Health != nil {
		r.Method(http.MethodGet, "/health", opts.Health)
	} else {
		r.Get("/health", healthHandler)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		r.Get("/random_uncategorized", opts.API.RandomUncategorized)
		r.Get("/categories", opts.API.Categories)
		r.Get("/categories/json", opts.API.CategoriesTree)
		r.Post("/assign_category", opts.API.AssignCategory)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

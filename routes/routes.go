package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/ticket-triage/app"
	"github.com/upb/ticket-triage/handlers"
	"github.com/upb/ticket-triage/middleware"
	"github.com/upb/ticket-triage/utils"
)

// defaultRequestTimeout applies when the config does not set one
const defaultRequestTimeout = 60 * time.Second

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	requestTimeout := defaultRequestTimeout
	allowedOrigins := []string{"http://localhost:*", "https://*"}
	if deps.Config != nil {
		if deps.Config.Server.RequestTimeout > 0 {
			requestTimeout = deps.Config.Server.RequestTimeout
		}
		if len(deps.Config.Server.AllowedOrigins) > 0 {
			allowedOrigins = deps.Config.Server.AllowedOrigins
		}
	}

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	// Ticket triage
	triageHandler := handlers.NewTriageHandler(deps.TriageService, deps.Logger)
	r.Post("/triage-ticket", triageHandler.HandleTriage)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", handlers.StatusHandler(deps))
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})

	return r
}

package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sagarmiglani/accessgate/app"
	"github.com/sagarmiglani/accessgate/auth"
	"github.com/sagarmiglani/accessgate/handlers"
	"github.com/sagarmiglani/accessgate/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(deps.DB.DB, deps.Access, deps.Logger)
	decisionHandler := handlers.NewDecisionHandler(deps.Access, deps.Config.Gate.DefaultContext, deps.Logger)
	registrationHandler := handlers.NewRegistrationHandler(deps.Access, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Access decisions: any authenticated caller
		r.Route("/access", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Post("/decision", decisionHandler.HandleDecision)
			r.Post("/query", decisionHandler.HandleQuery)
			r.Get("/restrictions", decisionHandler.HandleRestrictions)
			r.Get("/values", decisionHandler.HandleValues)
		})

		// Registration management: admins only
		r.Route("/registrations", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Use(deps.AuthMiddleware.RequireRole(auth.RoleAdmin))
			r.Get("/", registrationHandler.HandleListRegistrations)
			r.Post("/", registrationHandler.HandleCreateRegistration)
			r.Get("/{id}", registrationHandler.HandleGetRegistration)
			r.Patch("/{id}", registrationHandler.HandleUpdateRegistration)
			r.Delete("/{id}", registrationHandler.HandleDeleteRegistration)
		})

		// Gate type catalog: admins only
		r.Route("/gates", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Use(deps.AuthMiddleware.RequireRole(auth.RoleAdmin))
			r.Get("/", registrationHandler.HandleListGateTypes)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}

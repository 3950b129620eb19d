package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fitcoach/fitcoach-api/internal/auth"
	"github.com/fitcoach/fitcoach-api/internal/config"
	"github.com/fitcoach/fitcoach-api/internal/exercise"
	"github.com/fitcoach/fitcoach-api/internal/httputil"
	"github.com/fitcoach/fitcoach-api/internal/logging"
	"github.com/fitcoach/fitcoach-api/internal/routine"
	"github.com/fitcoach/fitcoach-api/internal/user"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	authMiddleware *auth.Middleware,
	exerciseHandler *exercise.Handler,
	routineHandler *routine.Handler,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	} else {
		log.Println("Swagger UI disabled (production mode)")
	}

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/verify", authHandler.Verify)
		r.Post("/refresh", authHandler.Refresh)

		// Authenticated session routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
			r.Get("/validate", authHandler.Validate)
			r.Get("/dashboard-route", authHandler.DashboardRoute)
		})

		// User management (coaches and admins)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Use(auth.RequireRoles(user.RoleAdmin, user.RoleCoach))
			r.Post("/register-user", authHandler.RegisterUser)
			r.Get("/users", authHandler.ListUsers)
			r.Patch("/users/{id}/toggle-status", authHandler.ToggleStatus)
		})
	})

	// Exercise catalog (authenticated; writes restricted to coaches and admins)
	r.Route("/exercises", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/", exerciseHandler.List)
		r.Get("/mine", exerciseHandler.ListMine)
		r.Get("/{id}", exerciseHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(user.RoleAdmin, user.RoleCoach))
			r.Post("/", exerciseHandler.Create)
			r.Patch("/{id}", exerciseHandler.Update)
			r.Delete("/{id}", exerciseHandler.Delete)
		})
	})

	// Workout routines (authenticated; writes restricted to coaches and admins)
	r.Route("/routines", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/", routineHandler.List)
		r.Get("/mine", routineHandler.ListMine)
		r.Get("/{id}", routineHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(user.RoleAdmin, user.RoleCoach))
			r.Post("/", routineHandler.Create)
			r.Patch("/{id}", routineHandler.Update)
			r.Delete("/{id}", routineHandler.Delete)
			r.Post("/{id}/exercises", routineHandler.AddExercise)
			r.Delete("/{id}/exercises/{slotId}", routineHandler.RemoveExercise)
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}

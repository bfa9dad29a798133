package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/AuthGo/internal/auth"
	"github.com/utafrali/AuthGo/internal/service"
	"github.com/utafrali/AuthGo/pkg/health"
	"github.com/utafrali/AuthGo/pkg/middleware"
)

// NewRouter creates a chi router with all auth service routes registered.
func NewRouter(
	userService *service.UserService,
	guard *auth.Guard,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(corsConfig))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("authgo"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(userService, logger)
	userHandler := NewUserHandler(userService, guard, logger)

	// Auth endpoints (public). Login takes a form body, so it stays outside
	// the JSON content-type gate.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/register", authHandler.Register)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})
	})

	r.Route("/users", func(r chi.Router) {
		// Public endpoints.
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/", userHandler.Create)
		})
		r.Get("/{id}", userHandler.Get)

		// Authenticated endpoints.
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(guard))

			r.Get("/", userHandler.List)
			r.Get("/me", userHandler.Me)
			r.Delete("/me", userHandler.DeleteMe)
			r.Delete("/{id}", userHandler.Delete)

			r.Group(func(r chi.Router) {
				r.Use(ContentTypeJSON)

				r.Post("/change-password", userHandler.ChangePassword)
				r.Put("/{id}", userHandler.Update)
			})
		})
	})

	return r
}

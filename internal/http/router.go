package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/maraton/maraton-api/internal/auth"
	"github.com/maraton/maraton-api/internal/config"
	"github.com/maraton/maraton-api/internal/favorite"
	"github.com/maraton/maraton-api/internal/httputil"
	"github.com/maraton/maraton-api/internal/logging"
	"github.com/maraton/maraton-api/internal/metrics"
	"github.com/maraton/maraton-api/internal/movie"
	"github.com/maraton/maraton-api/internal/ratelimit"
	"github.com/maraton/maraton-api/internal/user"
)

const (
	recoverLimit  = 5
	recoverWindow = 15 * time.Minute
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers groups everything the router mounts
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	LoginLimiter   *ratelimit.Limiter
	Users          *user.Handler
	Movies         *movie.Handler
	Favorites      *favorite.Handler
	DB             Pinger
}

var endpoints = []string{
	"POST /api/auth/register",
	"POST /api/auth/login",
	"POST /api/auth/logout",
	"POST /api/auth/recover",
	"POST /api/auth/reset/:token",
	"GET /api/usuarios",
	"GET /api/usuarios/:id",
	"PUT /api/usuarios/:id",
	"PUT /api/usuarios/:id/change-password",
	"DELETE /api/usuarios/:id",
	"POST /api/usuarios/favorites",
	"GET /api/usuarios/favorites",
	"PATCH /api/usuarios/favorites/:id",
	"GET /api/peliculas",
	"GET /api/peliculas/:id",
	"GET /api/peliculas/generos",
	"GET /api/peliculas/genero/:nombre",
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	ew := httputil.NewErrorWriter(cfg.Server.IsProduction())
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(Metrics)
	r.Use(middleware.Compress(5))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, map[string]any{
			"success":   false,
			"message":   "Ruta no encontrada",
			"code":      httputil.CodeNotFound,
			"path":      r.URL.Path,
			"endpoints": endpoints,
		}, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ew.Respond(w, r, http.StatusMethodNotAllowed, httputil.CodeMethodNotAllowed, "Método no permitido")
	})

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth(h.DB))
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.With(h.LoginLimiter.Middleware).Post("/login", h.Auth.Login)
			r.With(h.AuthMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
			r.With(recoverThrottle(ew, cfg.Server.TrustedProxyHops)).Post("/recover", h.Auth.Recover)
			r.Post("/reset/{token}", h.Auth.Reset)
		})

		r.Route("/usuarios", func(r chi.Router) {
			// registered before /{id} so "favorites" never parses as an id
			r.Route("/favorites", func(r chi.Router) {
				r.Use(h.AuthMiddleware.RequireAuth)
				r.Post("/", h.Favorites.Add)
				r.Get("/", h.Favorites.List)
				r.Patch("/{id}", h.Favorites.Set)
			})

			r.Get("/", h.Users.List)
			r.Get("/{id}", h.Users.Get)
			r.Put("/{id}", h.Users.Update)
			r.Put("/{id}/change-password", h.Users.ChangePassword)
			r.Delete("/{id}", h.Users.Delete)
		})

		r.Route("/peliculas", func(r chi.Router) {
			r.Get("/", h.Movies.List)
			r.Get("/generos", h.Movies.Genres)
			r.Get("/genero/{nombre}", h.Movies.ByGenre)
			r.Get("/{id}", h.Movies.Get)
		})
	})

	return r
}

// recoverThrottle caps recovery requests per client IP so the endpoint
// cannot be used to flood mailboxes. It keys like the login limiter.
func recoverThrottle(ew *httputil.ErrorWriter, trustedHops int) func(http.Handler) http.Handler {
	return httprate.Limit(
		recoverLimit,
		recoverWindow,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return ratelimit.ClientIP(r, trustedHops), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimitRejections.WithLabelValues("recover").Inc()
			ew.Respond(w, r, http.StatusTooManyRequests, httputil.CodeTooManyRequests,
				"Demasiadas solicitudes de recuperación, intenta más tarde")
		}),
	)
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Server is running"))
}

// handleHealth reports database reachability
// @Summary      Health check
// @Description  Check if the API and its database are reachable
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /health [get]
func handleHealth(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logging.GetLoggerFromContext(r.Context()).Error("health check failed", "error", err)
				httputil.RespondJSON(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
				return
			}
		}
		httputil.RespondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}

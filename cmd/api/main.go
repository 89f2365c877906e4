package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/maraton/maraton-api/docs" // Swagger docs (generated)
	"github.com/maraton/maraton-api/internal/auth"
	"github.com/maraton/maraton-api/internal/config"
	"github.com/maraton/maraton-api/internal/database"
	"github.com/maraton/maraton-api/internal/email"
	"github.com/maraton/maraton-api/internal/favorite"
	httpServer "github.com/maraton/maraton-api/internal/http"
	"github.com/maraton/maraton-api/internal/httputil"
	"github.com/maraton/maraton-api/internal/logging"
	"github.com/maraton/maraton-api/internal/movie"
	"github.com/maraton/maraton-api/internal/ratelimit"
	"github.com/maraton/maraton-api/internal/user"
)

// @title           Maraton API
// @version         1.0
// @description     Movie catalog API with cookie sessions, password recovery and favorites.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name authToken

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"token_strategy", cfg.Auth.TokenStrategy,
	)

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Open(startupCtx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	redisClient, err := database.OpenRedis(startupCtx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	ew := httputil.NewErrorWriter(cfg.Server.IsProduction())

	tokens, err := auth.NewTokenService(cfg.Auth.TokenStrategy, cfg.Auth.JWTSecret, cfg.Auth.PasetoKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	cookies := auth.CookieSettings{
		Name:         cfg.Auth.CookieName,
		IsProduction: cfg.Server.IsProduction(),
		MaxAge:       cfg.Auth.SessionDuration,
	}

	limitStore, closeStore := newLimitStore(redisClient)
	defer closeStore()
	loginLimiter := ratelimit.NewLimiter(
		limitStore,
		"login",
		cfg.Auth.LoginMaxAttempts,
		cfg.Auth.LoginWindow,
		"Demasiados intentos de inicio de sesión, intenta de nuevo en 10 minutos",
		ew,
	).TrustProxies(cfg.Server.TrustedProxyHops)

	sender, err := newSender(cfg.Email, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}
	emailService := email.NewService(sender, cfg.Email.FrontendURL)

	userRepo := user.NewRepository(db)
	movieService := movie.NewService(
		movie.NewRepository(db),
		movie.NewCache(redisClient, cfg.Cache.MovieTTL, logger),
	)

	authService := auth.NewService(
		userRepo,
		tokens,
		emailService,
		logger,
		cfg.Auth.SessionDuration,
		cfg.Auth.ResetDuration,
	)
	favoriteService := favorite.NewService(favorite.NewRepository(db), userRepo, movieService)

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:           auth.NewHandler(authService, cookies, ew),
		AuthMiddleware: auth.NewMiddleware(tokens, cookies, ew),
		LoginLimiter:   loginLimiter,
		Users:          user.NewHandler(user.NewService(userRepo), ew),
		Movies:         movie.NewHandler(movieService, ew),
		Favorites:      favorite.NewHandler(favoriteService, ew),
		DB:             db,
	}, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// newLimitStore shares counters through Redis when it is available so every
// instance sees the same login attempts.
func newLimitStore(client *redis.Client) (ratelimit.Store, func()) {
	if client != nil {
		return ratelimit.NewRedisStore(client), func() {}
	}
	store := ratelimit.NewMemoryStore(time.Minute)
	return store, store.Close
}

// newSender builds provider -> throttle -> circuit breaker
func newSender(cfg config.EmailConfig, logger *logging.Logger) (email.Sender, error) {
	var base email.Sender
	switch cfg.Provider {
	case "resend":
		base = email.NewResendSender(cfg.ResendAPIKey, cfg.From)
	case "smtp", "":
		base = email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}

	return email.NewBreakerSender(email.NewThrottledSender(base, cfg.SendPerSecond), logger), nil
}

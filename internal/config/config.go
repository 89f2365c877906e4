package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Email    EmailConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins for cookie auth

	// number of reverse proxies in front of the API whose X-Forwarded-For
	// entries are trusted; 0 keys clients on the socket address
	TrustedProxyHops int
}

type DatabaseConfig struct {
	Driver   string // postgres or mysql
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	TokenStrategy string // jwt or paseto
	JWTSecret     []byte
	// PASETO symmetric key (must be 32 bytes for v4.local)
	PasetoKey       []byte
	SessionDuration time.Duration
	ResetDuration   time.Duration
	CookieName      string

	LoginMaxAttempts int
	LoginWindow      time.Duration
}

type EmailConfig struct {
	Provider      string // smtp or resend
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	ResendAPIKey  string
	From          string
	FrontendURL   string // used to build password reset links
	SendPerSecond float64
}

type CacheConfig struct {
	MovieTTL time.Duration
}

// Load reads configuration from environment variables, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),

			TrustedProxyHops: getIntEnv("TRUSTED_PROXY_HOPS", 0),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "maraton"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			TokenStrategy:    strings.ToLower(getEnv("TOKEN_STRATEGY", "jwt")),
			JWTSecret:        []byte(getEnv("JWT_SECRET", devJWTSecret)),
			PasetoKey:        []byte(getEnv("PASETO_KEY", "")),
			SessionDuration:  getDurationEnv("SESSION_DURATION", 24*time.Hour),
			ResetDuration:    getDurationEnv("RESET_TOKEN_DURATION", time.Hour),
			CookieName:       getEnv("AUTH_COOKIE_NAME", "authToken"),
			LoginMaxAttempts: getIntEnv("LOGIN_MAX_ATTEMPTS", 5),
			LoginWindow:      getDurationEnv("LOGIN_WINDOW", 10*time.Minute),
		},
		Email: EmailConfig{
			Provider:      strings.ToLower(getEnv("EMAIL_PROVIDER", "smtp")),
			SMTPHost:      getEnv("SMTP_HOST", ""),
			SMTPPort:      getEnv("SMTP_PORT", "587"),
			SMTPUser:      getEnv("SMTP_USER", ""),
			SMTPPassword:  getEnv("SMTP_PASS", ""),
			ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
			From:          getEnv("EMAIL_FROM", "Maraton <no-reply@maraton.app>"),
			FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
			SendPerSecond: getFloatEnv("EMAIL_SEND_PER_SECOND", 2),
		},
		Cache: CacheConfig{
			MovieTTL: getDurationEnv("MOVIE_CACHE_TTL", 5*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot default safely.
func (c *Config) Validate() error {
	switch c.Server.Env {
	case "dev", "prod":
	default:
		return fmt.Errorf("APP_ENV must be dev or prod, got %q", c.Server.Env)
	}

	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or mysql, got %q", c.Database.Driver)
	}

	switch c.Auth.TokenStrategy {
	case "jwt":
		if len(c.Auth.JWTSecret) == 0 {
			return errors.New("JWT_SECRET is required")
		}
		if c.Server.IsProduction() && string(c.Auth.JWTSecret) == devJWTSecret {
			return errors.New("JWT_SECRET must be set in production")
		}
	case "paseto":
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
		}
	default:
		return fmt.Errorf("TOKEN_STRATEGY must be jwt or paseto, got %q", c.Auth.TokenStrategy)
	}

	switch c.Email.Provider {
	case "smtp":
	case "resend":
		if c.Email.ResendAPIKey == "" {
			return errors.New("RESEND_API_KEY is required when EMAIL_PROVIDER=resend")
		}
	default:
		return fmt.Errorf("EMAIL_PROVIDER must be smtp or resend, got %q", c.Email.Provider)
	}

	if c.Auth.LoginMaxAttempts <= 0 || c.Auth.LoginWindow <= 0 {
		return errors.New("login rate limit must be positive")
	}
	if c.Email.SendPerSecond <= 0 {
		return fmt.Errorf("EMAIL_SEND_PER_SECOND must be greater than 0, got %v", c.Email.SendPerSecond)
	}
	if c.Server.TrustedProxyHops < 0 {
		return fmt.Errorf("TRUSTED_PROXY_HOPS must not be negative, got %d", c.Server.TrustedProxyHops)
	}
	return nil
}

// ConnectionString returns a lib/pq keyword/value DSN
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func (c *ServerConfig) IsProduction() bool {
	return c.Env == "prod"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return f
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return b
}

// getDurationEnv reads a whole number of seconds
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/maraton/maraton-api/internal/httputil"
	"github.com/maraton/maraton-api/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	UserIDContextKey    ContextKey = "user_id"
	UserEmailContextKey ContextKey = "user_email"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	cookies      CookieSettings
	ew           *httputil.ErrorWriter
}

func NewMiddleware(tokenService TokenService, cookies CookieSettings, ew *httputil.ErrorWriter) *Middleware {
	return &Middleware{tokenService: tokenService, cookies: cookies, ew: ew}
}

// RequireAuth validates the session token from the cookie, falling back to
// an Authorization: Bearer header.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := m.cookies.GetSessionToken(r)

		if token == "" {
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
					m.ew.Respond(w, r, http.StatusUnauthorized, httputil.CodeInvalidAuthHeader, "Formato de autorización inválido")
					return
				}
				token = strings.TrimSpace(parts[1])
			}
		}

		if token == "" {
			m.ew.Respond(w, r, http.StatusUnauthorized, httputil.CodeMissingAuth, "No autenticado")
			return
		}

		claims, err := m.tokenService.VerifyToken(token, PurposeSession)
		if err != nil {
			logging.GetLoggerFromContext(r.Context()).Debug("session token rejected", "error", err.Error())
			msg := "Token inválido"
			if errors.Is(err, ErrExpiredToken) {
				msg = "Token expirado"
			}
			m.ew.Respond(w, r, http.StatusUnauthorized, httputil.CodeInvalidToken, msg)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, claims.UserID)
		ctx = context.WithValue(ctx, UserEmailContextKey, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(int64)
	return userID, ok
}

// GetUserEmailFromContext extracts the user email from the request context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailContextKey).(string)
	return email, ok
}

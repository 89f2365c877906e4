package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenPurpose scopes a token to one use. A session token is never accepted
// as a reset token and the reverse.
type TokenPurpose string

const (
	PurposeSession       TokenPurpose = "session"
	PurposePasswordReset TokenPurpose = "password_reset"
)

const (
	tokenIssuer   = "maraton-api"
	tokenAudience = "maraton-web"
)

// TokenClaims are the verified contents of a token
type TokenClaims struct {
	ID        string
	UserID    int64
	Email     string
	Purpose   TokenPurpose
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (v4.local).
type TokenService interface {
	CreateToken(userID int64, email string, purpose TokenPurpose, duration time.Duration) (string, error)
	VerifyToken(tokenStr string, purpose TokenPurpose) (*TokenClaims, error)
}

// NewTokenService picks the implementation named by strategy
func NewTokenService(strategy string, jwtSecret, pasetoKey []byte) (TokenService, error) {
	switch strategy {
	case "paseto":
		svc, err := NewPasetoService(pasetoKey)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "jwt", "":
		svc, err := NewJWTService(jwtSecret)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, errors.New("unknown token strategy " + strategy)
	}
}

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func tokenServices(t *testing.T) map[string]TokenService {
	t.Helper()
	jwtSvc, err := NewJWTService([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	pasetoSvc, err := NewPasetoService([]byte(strings.Repeat("k", 32)))
	if err != nil {
		t.Fatal(err)
	}
	return map[string]TokenService{"jwt": jwtSvc, "paseto": pasetoSvc}
}

func TestTokenRoundTrip(t *testing.T) {
	for name, svc := range tokenServices(t) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(42, "a@b.com", PurposeSession, time.Hour)
			if err != nil {
				t.Fatalf("CreateToken() error = %v", err)
			}

			claims, err := svc.VerifyToken(token, PurposeSession)
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if claims.UserID != 42 || claims.Email != "a@b.com" || claims.Purpose != PurposeSession {
				t.Errorf("unexpected claims: %+v", claims)
			}
			if claims.ID == "" {
				t.Error("expected token id")
			}
		})
	}
}

func TestTokenPurposeIsEnforced(t *testing.T) {
	for name, svc := range tokenServices(t) {
		t.Run(name, func(t *testing.T) {
			token, _ := svc.CreateToken(1, "a@b.com", PurposeSession, time.Hour)

			if _, err := svc.VerifyToken(token, PurposePasswordReset); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("session token as reset token: got %v", err)
			}
		})
	}
}

func TestTokenTamperedOrForeign(t *testing.T) {
	for name, svc := range tokenServices(t) {
		t.Run(name, func(t *testing.T) {
			token, _ := svc.CreateToken(1, "a@b.com", PurposeSession, time.Hour)

			tampered := token[:len(token)-2] + "xx"
			if _, err := svc.VerifyToken(tampered, PurposeSession); err == nil {
				t.Error("expected tampered token to fail")
			}
			if _, err := svc.VerifyToken("not-a-token", PurposeSession); err == nil {
				t.Error("expected garbage to fail")
			}
		})
	}
}

func TestTokensAreUnique(t *testing.T) {
	for name, svc := range tokenServices(t) {
		t.Run(name, func(t *testing.T) {
			a, _ := svc.CreateToken(1, "a@b.com", PurposePasswordReset, time.Hour)
			b, _ := svc.CreateToken(1, "a@b.com", PurposePasswordReset, time.Hour)
			if a == b {
				t.Error("two tokens issued together must differ")
			}
		})
	}
}

func TestJWTExpired(t *testing.T) {
	svc, _ := NewJWTService([]byte("test-secret"))
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, _ := svc.CreateToken(1, "a@b.com", PurposeSession, time.Hour)

	svc.now = time.Now
	if _, err := svc.VerifyToken(token, PurposeSession); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	a, _ := NewJWTService([]byte("secret-a"))
	b, _ := NewJWTService([]byte("secret-b"))

	token, _ := a.CreateToken(1, "a@b.com", PurposeSession, time.Hour)
	if _, err := b.VerifyToken(token, PurposeSession); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasetoExpired(t *testing.T) {
	svc, _ := NewPasetoService([]byte(strings.Repeat("k", 32)))
	token, _ := svc.CreateToken(1, "a@b.com", PurposeSession, -time.Minute)

	if _, err := svc.VerifyToken(token, PurposeSession); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewTokenService(t *testing.T) {
	if _, err := NewTokenService("paseto", nil, []byte("short")); err == nil {
		t.Error("expected short paseto key to fail")
	}
	if _, err := NewTokenService("rot13", []byte("s"), nil); err == nil {
		t.Error("expected unknown strategy to fail")
	}
	svc, err := NewTokenService("jwt", []byte("s"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.(*JWTService); !ok {
		t.Errorf("got %T, want *JWTService", svc)
	}
}

package auth

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/maraton/maraton-api/internal/logging"
)

func bufferLogger(buf *bytes.Buffer) *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewTextHandler(buf, nil))}
}

func TestServiceLogsWithoutRequestLogger(t *testing.T) {
	var serviceLog, requestLog bytes.Buffer

	tokens, err := NewJWTService([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(newMemoryUsers(), tokens, &captureMailer{}, bufferLogger(&serviceLog), time.Hour, time.Hour)

	if err := svc.RequestPasswordReset(context.Background(), "ghost@b.com"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if !strings.Contains(serviceLog.String(), "password reset requested for unknown email") {
		t.Errorf("service logger not used outside a request: %q", serviceLog.String())
	}

	serviceLog.Reset()
	ctx := logging.WithLogger(context.Background(), bufferLogger(&requestLog))
	if err := svc.RequestPasswordReset(ctx, "ghost@b.com"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if !strings.Contains(requestLog.String(), "password reset requested for unknown email") {
		t.Errorf("request logger not used: %q", requestLog.String())
	}
	if serviceLog.Len() != 0 {
		t.Errorf("service logger used despite request logger: %q", serviceLog.String())
	}
}

func TestServiceRegisterLogsCreatedUser(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(newMemoryUsers(), nil, nil, bufferLogger(&buf), time.Hour, time.Hour)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:     "a@b.com",
		Password:  "Abcdef1!",
		Username:  "alice",
		BirthDate: "2000-01-01",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !strings.Contains(buf.String(), "user registered") || !strings.Contains(buf.String(), "user_id=") {
		t.Errorf("registration not logged: %q", buf.String())
	}
	if u.ID == 0 {
		t.Error("user id not assigned")
	}
}

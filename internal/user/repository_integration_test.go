//go:build integration

package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maraton/maraton-api/internal/testinfra"
)

func TestRepositoryConsumeResetToken(t *testing.T) {
	for _, driver := range testinfra.Drivers {
		t.Run(driver, func(t *testing.T) {
			repo := NewRepository(testinfra.StartDatabase(t, driver))
			ctx := context.Background()

			u := &User{
				Email:           "a@b.com",
				PasswordHash:    "old-hash",
				Username:        "alice",
				FechaNacimiento: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			if err := repo.Create(ctx, u); err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			now := time.Now().UTC().Truncate(time.Second)
			if err := repo.SetResetToken(ctx, u.ID, "tok-1", now.Add(time.Hour)); err != nil {
				t.Fatalf("SetResetToken() error = %v", err)
			}

			if err := repo.ConsumeResetToken(ctx, u.ID, "tok-other", "x", now); !errors.Is(err, ErrResetTokenInvalid) {
				t.Errorf("wrong token error = %v, want ErrResetTokenInvalid", err)
			}
			if err := repo.ConsumeResetToken(ctx, u.ID, "tok-1", "new-hash", now); err != nil {
				t.Fatalf("ConsumeResetToken() error = %v", err)
			}
			if err := repo.ConsumeResetToken(ctx, u.ID, "tok-1", "third-hash", now); !errors.Is(err, ErrResetTokenInvalid) {
				t.Errorf("reused token error = %v, want ErrResetTokenInvalid", err)
			}

			got, err := repo.GetByID(ctx, u.ID)
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if got.PasswordHash != "new-hash" {
				t.Errorf("PasswordHash = %q, want new-hash", got.PasswordHash)
			}
			if got.ResetPasswordToken != nil || got.ResetPasswordExpires != nil {
				t.Errorf("reset columns not cleared: %v %v", got.ResetPasswordToken, got.ResetPasswordExpires)
			}
		})
	}
}

func TestRepositoryConsumeExpiredResetToken(t *testing.T) {
	for _, driver := range testinfra.Drivers {
		t.Run(driver, func(t *testing.T) {
			repo := NewRepository(testinfra.StartDatabase(t, driver))
			ctx := context.Background()

			u := &User{
				Email:           "a@b.com",
				PasswordHash:    "old-hash",
				Username:        "alice",
				FechaNacimiento: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			if err := repo.Create(ctx, u); err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			now := time.Now().UTC().Truncate(time.Second)
			if err := repo.SetResetToken(ctx, u.ID, "tok-1", now.Add(-time.Minute)); err != nil {
				t.Fatalf("SetResetToken() error = %v", err)
			}
			if err := repo.ConsumeResetToken(ctx, u.ID, "tok-1", "new-hash", now); !errors.Is(err, ErrResetTokenInvalid) {
				t.Errorf("expired token error = %v, want ErrResetTokenInvalid", err)
			}

			got, err := repo.GetByID(ctx, u.ID)
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if got.PasswordHash != "old-hash" {
				t.Errorf("PasswordHash = %q, want old-hash", got.PasswordHash)
			}
		})
	}
}

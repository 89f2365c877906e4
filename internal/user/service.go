package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maraton/maraton-api/internal/validation"
)

var (
	ErrNoFieldsToUpdate       = errors.New("at least one field is required")
	ErrInvalidEmail           = errors.New("invalid email format")
	ErrEmptyUsername          = errors.New("username cannot be empty")
	ErrInvalidDate            = errors.New("invalid date format")
	ErrPasswordsRequired      = errors.New("current and new password are required")
	ErrCurrentPasswordInvalid = errors.New("current password is incorrect")
	ErrWeakPassword           = errors.New("password does not meet strength rules")
)

// Store is the persistence the profile service needs
type Store interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	EmailTakenByOther(ctx context.Context, email string, id int64) (bool, error)
	Update(ctx context.Context, id int64, f UpdateFields) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// UpdateInput mirrors the JSON body. Nil means the field was not sent.
type UpdateInput struct {
	Email           *string
	Username        *string
	FechaNacimiento *string
}

// NormalizeEmail lowercases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateProfile validates each supplied field, then writes them together.
func (s *Service) UpdateProfile(ctx context.Context, id int64, in UpdateInput) (*User, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if in.Email == nil && in.Username == nil && in.FechaNacimiento == nil {
		return nil, ErrNoFieldsToUpdate
	}

	var fields UpdateFields

	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if !validation.IsEmail(email) {
			return nil, ErrInvalidEmail
		}
		taken, err := s.store.EmailTakenByOther(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateEmail
		}
		fields.Email = &email
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, ErrEmptyUsername
		}
		fields.Username = &username
	}

	if in.FechaNacimiento != nil {
		birth, err := validation.ParseDate(*in.FechaNacimiento)
		if err != nil {
			return nil, ErrInvalidDate
		}
		fields.FechaNacimiento = &birth
	}

	return s.store.Update(ctx, id, fields)
}

// ChangePassword checks the current password before accepting a new one.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	if current == "" || next == "" {
		return ErrPasswordsRequired
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := ComparePassword(u.PasswordHash, current)
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		return ErrCurrentPasswordInvalid
	}

	if !validation.IsStrongPassword(next) {
		return ErrWeakPassword
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, id, hash)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// ensure the bun repository satisfies Store
var _ Store = (*Repository)(nil)

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/maraton/maraton-api/internal/logging"
	"github.com/maraton/maraton-api/internal/metrics"
	"github.com/maraton/maraton-api/internal/user"
	"github.com/maraton/maraton-api/internal/validation"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// UserStore is the user persistence the auth flows need
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error
	ConsumeResetToken(ctx context.Context, id int64, token, passwordHash string, now time.Time) error
}

// EmailService sends the recovery mail
type EmailService interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}

// Service handles authentication business logic
type Service struct {
	users           UserStore
	tokens          TokenService
	emailService    EmailService
	logger          *logging.Logger
	sessionDuration time.Duration
	resetDuration   time.Duration
	now             func() time.Time
}

func NewService(
	users UserStore,
	tokens TokenService,
	emailService EmailService,
	logger *logging.Logger,
	sessionDuration time.Duration,
	resetDuration time.Duration,
) *Service {
	return &Service{
		users:           users,
		tokens:          tokens,
		emailService:    emailService,
		logger:          logger,
		sessionDuration: sessionDuration,
		resetDuration:   resetDuration,
		now:             time.Now,
	}
}

// RegisterInput is the registration payload
type RegisterInput struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Username  string `json:"username" validate:"required"`
	BirthDate string `json:"birth_date" validate:"required"`
}

// Register checks presence, email format, password strength, email
// uniqueness and birth date in that order, then creates the user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	in.Email = user.NormalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if err := validation.ValidateStruct(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	if err := validation.Var(in.Email, "email_basic"); err != nil {
		return nil, user.ErrInvalidEmail
	}
	if err := validation.Var(in.Password, "strong_password"); err != nil {
		return nil, user.ErrWeakPassword
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, user.ErrDuplicateEmail
	case !errors.Is(err, user.ErrNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	birth, err := validation.ParseDate(in.BirthDate)
	if err != nil {
		return nil, user.ErrInvalidDate
	}

	hash, err := user.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Email:           in.Email,
		PasswordHash:    hash,
		Username:        in.Username,
		FechaNacimiento: birth,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log(ctx).Info("user registered", "user_id", u.ID)
	return u, nil
}

// Now exposes the service clock so handlers compute ages consistently
func (s *Service) Now() time.Time {
	return s.now()
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// equalizes work between unknown emails and wrong passwords
func compareAgainstDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = user.HashPassword("Dummy-password1!")
	})
	_, _ = user.ComparePassword(dummyHash, password)
}

// Login verifies credentials and returns the user with a session token.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			compareAgainstDummy(password)
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return nil, "", ErrInvalidCredentials
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := user.ComparePassword(u.PasswordHash, password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, "", fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(u.ID, u.Email, PurposeSession, s.sessionDuration)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return u, token, nil
}

// RequestPasswordReset issues and mails a reset token. Unknown emails return
// nil so callers cannot tell whether an account exists.
// log prefers the request logger and falls back to the service logger for
// calls made outside an HTTP request, such as the admin CLI.
func (s *Service) log(ctx context.Context) *logging.Logger {
	if l, ok := ctx.Value(logging.LoggerContextKey).(*logging.Logger); ok {
		return l
	}
	if s.logger != nil {
		return s.logger
	}
	return logging.GetLoggerFromContext(ctx)
}

func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = user.NormalizeEmail(email)
	if email == "" {
		return ErrMissingFields
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.log(ctx).Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.tokens.CreateToken(u.ID, u.Email, PurposePasswordReset, s.resetDuration)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	if err := s.users.SetResetToken(ctx, u.ID, token, s.now().Add(s.resetDuration)); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(ctx, u.Email, token); err != nil {
		return err
	}

	s.log(ctx).Info("password reset issued", "user_id", u.ID)
	return nil
}

// ResetPassword consumes a reset token. Any token problem is reported as
// ErrInvalidResetToken.
func (s *Service) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if strings.TrimSpace(token) == "" || password == "" || confirm == "" {
		return ErrMissingFields
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if !validation.IsStrongPassword(password) {
		return user.ErrWeakPassword
	}

	claims, err := s.tokens.VerifyToken(token, PurposePasswordReset)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := user.HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.users.ConsumeResetToken(ctx, claims.UserID, token, hash, s.now()); err != nil {
		if errors.Is(err, user.ErrResetTokenInvalid) {
			return ErrInvalidResetToken
		}
		return err
	}

	s.log(ctx).Info("password reset completed", "user_id", claims.UserID)
	return nil
}

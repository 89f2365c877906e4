package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/maraton/maraton-api/internal/database"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
)

// Repository handles user data persistence
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create inserts u and sets its ID. Email must already be normalized.
func (r *Repository) Create(ctx context.Context, u *User) error {
	dbUser := &database.User{
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Username:        u.Username,
		FechaNacimiento: u.FechaNacimiento,
	}

	if _, err := r.db.NewInsert().Model(dbUser).Exec(ctx); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbUser.ID
	return nil
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	var rows []database.User
	if err := r.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]User, len(rows))
	for i := range rows {
		users[i] = *mapDBUserToModel(&rows[i])
	}
	return users, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail looks up a normalized (lowercased, trimmed) email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *Repository) getOne(ctx context.Context, where string, arg any) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().Model(dbUser).Where(where, arg).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return mapDBUserToModel(dbUser), nil
}

// Exists reports whether a user with id exists
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.db.NewSelect().Model((*database.User)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return ok, nil
}

// EmailTakenByOther reports whether email belongs to a user other than id
func (r *Repository) EmailTakenByOther(ctx context.Context, email string, id int64) (bool, error) {
	ok, err := r.db.NewSelect().
		Model((*database.User)(nil)).
		Where("email = ?", email).
		Where("id <> ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return ok, nil
}

// Update applies the non-nil fields in one UPDATE and returns the new row.
func (r *Repository) Update(ctx context.Context, id int64, f UpdateFields) (*User, error) {
	q := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id)

	if f.Email != nil {
		q = q.Set("email = ?", *f.Email)
	}
	if f.Username != nil {
		q = q.Set("username = ?", *f.Username)
	}
	if f.FechaNacimiento != nil {
		q = q.Set("fecha_nacimiento = ?", *f.FechaNacimiento)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// UpdatePassword updates a user's password hash
func (r *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("password = ?", passwordHash).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*database.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(res)
}

// SetResetToken stores a pending reset token, replacing any previous one
func (r *Repository) SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	res, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("reset_password_token = ?", token).
		Set("reset_password_expires = ?", expires).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return requireRow(res)
}

// ConsumeResetToken sets the new hash and clears the reset token in a single
// conditional UPDATE. It only matches while token is the stored one and has
// not expired, so a token can be used once.
func (r *Repository) ConsumeResetToken(ctx context.Context, id int64, token, passwordHash string, now time.Time) error {
	res, err := consumeResetTokenQuery(r.db, id, token, passwordHash, now).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if err := requireRow(res); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	return nil
}

func consumeResetTokenQuery(db bun.IDB, id int64, token, passwordHash string, now time.Time) *bun.UpdateQuery {
	return db.NewUpdate().
		Model((*database.User)(nil)).
		Set("password = ?", passwordHash).
		Set("reset_password_token = NULL").
		Set("reset_password_expires = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("reset_password_token = ?", token).
		Where("reset_password_expires > ?", now)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:                   dbu.ID,
		Email:                dbu.Email,
		PasswordHash:         dbu.PasswordHash,
		Username:             dbu.Username,
		FechaNacimiento:      dbu.FechaNacimiento,
		ResetPasswordToken:   dbu.ResetPasswordToken,
		ResetPasswordExpires: dbu.ResetPasswordExpires,
		CreatedAt:            dbu.CreatedAt,
		UpdatedAt:            dbu.UpdatedAt,
	}
}

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/maraton/maraton-api/internal/user"
)

type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*user.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[int64]*user.User)}
}

func (m *memoryUsers) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}
	m.nextID++
	u.ID = m.nextID
	c := *u
	m.byID[u.ID] = &c
	return nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *memoryUsers) SetResetToken(_ context.Context, id int64, token string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.ResetPasswordToken = &token
	u.ResetPasswordExpires = &expires
	return nil
}

func (m *memoryUsers) ConsumeResetToken(_ context.Context, id int64, token, hash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.ResetPasswordToken == nil || *u.ResetPasswordToken != token ||
		u.ResetPasswordExpires == nil || !u.ResetPasswordExpires.After(now) {
		return user.ErrResetTokenInvalid
	}
	u.PasswordHash = hash
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
	return nil
}

type captureMailer struct {
	mu     sync.Mutex
	tokens []string
	err    error
}

func (c *captureMailer) SendPasswordResetEmail(_ context.Context, _ string, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.tokens = append(c.tokens, token)
	return nil
}

func (c *captureMailer) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tokens) == 0 {
		return ""
	}
	return c.tokens[len(c.tokens)-1]
}

package user

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryStore is an in-memory Store for tests
type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[int64]*User)}
}

func (m *memoryStore) add(u User) *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = &u
	return &u
}

func (m *memoryStore) List(context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) GetByID(_ context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *memoryStore) EmailTakenByOther(_ context.Context, email string, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) Update(_ context.Context, id int64, f UpdateFields) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if f.Email != nil {
		u.Email = *f.Email
	}
	if f.Username != nil {
		u.Username = *f.Username
	}
	if f.FechaNacimiento != nil {
		u.FechaNacimiento = *f.FechaNacimiento
	}
	u.UpdatedAt = time.Now()
	c := *u
	return &c, nil
}

func (m *memoryStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

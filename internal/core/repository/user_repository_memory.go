package repository

import (
	"context"
	"sync"

	"github.com/terracast/auth-service/internal/core/domain"
)

// MemoryUserRepository implements domain.UserRepository on a
// mutex-guarded map. The mutex makes the insert check-and-set atomic,
// so concurrent Create calls for one username settle the same way the
// Postgres primary key does: one winner, the rest observe
// domain.ErrDuplicateUsername. Used by tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.UserRecord
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.UserRecord)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, username, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[username]; exists {
		return domain.ErrDuplicateUsername
	}
	r.users[username] = domain.UserRecord{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	return nil
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.users[username]
	if !exists {
		return nil, nil
	}
	return &rec, nil
}

func (r *MemoryUserRepository) UpdateEmail(ctx context.Context, username, newEmail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.users[username]
	if !exists {
		return domain.ErrNotFound
	}
	rec.Email = newEmail
	r.users[username] = rec
	return nil
}

func (r *MemoryUserRepository) UpdatePasswordHash(ctx context.Context, username, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.users[username]
	if !exists {
		return domain.ErrNotFound
	}
	rec.PasswordHash = newHash
	r.users[username] = rec
	return nil
}

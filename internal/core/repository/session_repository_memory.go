package repository

import (
	"context"
	"sync"

	"github.com/terracast/auth-service/internal/core/domain"
)

// MemorySessionStore implements domain.SessionStore on a mutex-guarded
// map. Session state is valid within a single running instance, which
// is all the contract requires; it is the default backend.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionRecord
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domain.SessionRecord)}
}

func (s *MemorySessionStore) Create(ctx context.Context, session domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.Token] = session
	return nil
}

func (s *MemorySessionStore) GetByToken(ctx context.Context, token string) (*domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.sessions[token]
	if !exists {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

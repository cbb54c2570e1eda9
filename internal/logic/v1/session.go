package v1

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/terracast/auth-service/internal/core/domain"
)

// tokenBytes is the entropy of an issued session token. 32 random
// bytes make guessing infeasible.
const tokenBytes = 32

// SessionManager owns the session lifecycle: it issues opaque tokens,
// validates them against the configured TTL, and revokes them. Tokens
// carry no claims; everything is resolved through the backing store,
// so revocation takes effect immediately.
type SessionManager struct {
	store domain.SessionStore
	ttl   time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// NewSessionManager creates a SessionManager over the given store.
// Sessions expire ttl after issuance.
func NewSessionManager(store domain.SessionStore, ttl time.Duration) *SessionManager {
	return &SessionManager{store: store, ttl: ttl, now: time.Now}
}

// Issue generates a fresh token for the given username and records the
// association. Every call produces a new token; tokens are never reused
// across login events.
func (m *SessionManager) Issue(ctx context.Context, username string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	now := m.now()
	session := domain.SessionRecord{
		Token:     token,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Create(ctx, session); err != nil {
		return "", fmt.Errorf("record session: %w", err)
	}

	return token, nil
}

// Validate resolves a token to its owning username. The second return
// is false for unknown, revoked, and expired tokens alike. An expired
// session is deleted on the way out; failure to delete does not fail
// validation.
func (m *SessionManager) Validate(ctx context.Context, token string) (string, bool, error) {
	session, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return "", false, fmt.Errorf("lookup session: %w", err)
	}
	if session == nil {
		return "", false, nil
	}

	if m.now().After(session.ExpiresAt) {
		_ = m.store.Delete(ctx, token)
		return "", false, nil
	}

	return session.Username, true, nil
}

// Revoke removes a session. Revoking an unknown or already-revoked
// token is a no-op, not an error.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

package domain

import (
	"context"
	"time"
)

// SessionRecord associates an opaque token with the identity it was
// issued to. The username is a reference, not an ownership relation.
type SessionRecord struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore defines the data-access contract for session state.
// Backends may be ephemeral (in-memory) or persistent (Postgres);
// validity within a single running instance is all the Logic layer
// requires.
type SessionStore interface {
	// Create records a newly issued session.
	Create(ctx context.Context, session SessionRecord) error

	// GetByToken looks up a session by token.
	// Returns (nil, nil) when the token matches no session.
	GetByToken(ctx context.Context, token string) (*SessionRecord, error)

	// Delete removes a session. Deleting an unknown token is a no-op.
	Delete(ctx context.Context, token string) error
}

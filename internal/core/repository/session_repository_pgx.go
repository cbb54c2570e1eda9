package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/terracast/auth-service/internal/core/domain"
)

// PgxSessionStore implements domain.SessionStore on Postgres, for
// deployments that need sessions to survive a process restart.
type PgxSessionStore struct {
	db querier
}

// NewSessionStore creates a new PgxSessionStore.
func NewSessionStore(db querier) *PgxSessionStore {
	return &PgxSessionStore{db: db}
}

// Create records a newly issued session.
func (s *PgxSessionStore) Create(ctx context.Context, session domain.SessionRecord) error {
	query := `INSERT INTO sessions (token, username, created_at, expires_at) VALUES ($1, $2, $3, $4)`

	_, err := s.db.Exec(ctx, query, session.Token, session.Username, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetByToken looks up a session by token.
// Returns (nil, nil) when the token matches no session.
func (s *PgxSessionStore) GetByToken(ctx context.Context, token string) (*domain.SessionRecord, error) {
	query := `SELECT token, username, created_at, expires_at FROM sessions WHERE token = $1`

	var rec domain.SessionRecord
	err := s.db.QueryRow(ctx, query, token).Scan(&rec.Token, &rec.Username, &rec.CreatedAt, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session: %w", err)
	}

	return &rec, nil
}

// Delete removes a session. Deleting an unknown token is a no-op.
func (s *PgxSessionStore) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`

	if _, err := s.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

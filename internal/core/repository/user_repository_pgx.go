// Package repository contains the storage implementations of the
// domain contracts: pgx-backed for durable state and in-memory
// (mutex-guarded) for ephemeral session state and tests.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/terracast/auth-service/internal/core/domain"
)

// querier is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it in tests.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxUserRepository implements domain.UserRepository on Postgres.
type PgxUserRepository struct {
	db querier
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(db querier) *PgxUserRepository {
	return &PgxUserRepository{db: db}
}

// Create inserts a new user. The users table has username as its
// primary key, so concurrent inserts for the same username are settled
// by Postgres: the loser observes a unique violation, surfaced as
// domain.ErrDuplicateUsername.
func (r *PgxUserRepository) Create(ctx context.Context, username, email, passwordHash string) error {
	query := `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, username, email, passwordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByUsername returns the user matching the given username.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByUsername(ctx context.Context, username string) (*domain.UserRecord, error) {
	query := `SELECT username, email, password_hash FROM users WHERE username = $1`

	var rec domain.UserRecord
	err := r.db.QueryRow(ctx, query, username).Scan(&rec.Username, &rec.Email, &rec.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	return &rec, nil
}

// UpdateEmail replaces the user's email address.
func (r *PgxUserRepository) UpdateEmail(ctx context.Context, username, newEmail string) error {
	query := `UPDATE users SET email = $2 WHERE username = $1`

	tag, err := r.db.Exec(ctx, query, username, newEmail)
	if err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// UpdatePasswordHash replaces the stored credential hash.
func (r *PgxUserRepository) UpdatePasswordHash(ctx context.Context, username, newHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE username = $1`

	tag, err := r.db.Exec(ctx, query, username, newHash)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

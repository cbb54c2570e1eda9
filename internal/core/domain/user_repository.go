package domain

import "context"

// UserRecord is a full user row, including the password hash so the
// Logic layer can verify credentials.
type UserRecord struct {
	Username     string
	Email        string
	PasswordHash string
}

// UserRepository defines the data-access contract for user records.
// The username is the immutable primary key; uniqueness is enforced by
// the storage layer, not by callers.
type UserRepository interface {
	// Create inserts a new user. Returns ErrDuplicateUsername when a
	// record with that username already exists; under concurrent calls
	// for the same username exactly one insert wins.
	Create(ctx context.Context, username, email, passwordHash string) error

	// GetByUsername returns the user matching the given username.
	// Returns (nil, nil) when no user is found.
	GetByUsername(ctx context.Context, username string) (*UserRecord, error)

	// UpdateEmail replaces the user's email address.
	// Returns ErrNotFound when no record matches.
	UpdateEmail(ctx context.Context, username, newEmail string) error

	// UpdatePasswordHash replaces the stored credential hash.
	// Returns ErrNotFound when no record matches.
	UpdatePasswordHash(ctx context.Context, username, newHash string) error
}

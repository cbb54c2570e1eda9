package domain

import "errors"

// Storage-level sentinel errors. Repositories translate backend
// failures (Postgres error codes, missing map keys) into these so the
// Logic layer never depends on pgx.
var (
	// ErrDuplicateUsername indicates an insert lost the uniqueness race
	// on the username primary key.
	ErrDuplicateUsername = errors.New("duplicate username")

	// ErrNotFound indicates an update targeted a username with no record.
	ErrNotFound = errors.New("record not found")
)

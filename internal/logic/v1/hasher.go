package v1

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt: a salted, adaptively slow one-way
// transform. The salt is generated per Hash call and embedded in the
// output, so Verify needs no separate salt storage, and two hashes of
// the same password never match each other.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash derives a credential hash from the password. bcrypt is
// intentionally CPU-expensive, so the computation runs as a cancellable
// unit of work: when ctx is done first, the call returns ctx.Err() and
// the discarded result has no side effects to undo.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		hash []byte
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		ch <- result{hash: hash, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("hash password: %w", r.err)
		}
		return string(r.hash), nil
	}
}

// Verify checks the password against a stored hash. A mismatch is a
// normal outcome, reported as (false, nil); an error is returned only
// when the stored hash itself is structurally invalid. bcrypt's
// comparison is constant-time with respect to where a mismatch occurs.
func (h *PasswordHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrHashFormat, err)
	}
}

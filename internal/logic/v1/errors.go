// Package v1 provides the account business logic for API version 1:
// password policy, credential hashing, session lifecycle, and the
// account service orchestrating them.
//
// Error handling follows the sentinel-error convention: business
// methods wrap these values with fmt.Errorf("%w"), handlers match with
// errors.Is. PolicyError is the one typed error, extracted with
// errors.As so callers can report every violated rule at once.
package v1

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for account operations.
var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two cases are deliberately indistinguishable so the
	// API cannot be used to enumerate usernames.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken indicates the requested username already exists.
	// HTTP Status: 409 Conflict
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUnauthorized indicates the presented session token is unknown,
	// expired, or revoked; the caller must re-authenticate.
	// HTTP Status: 401 Unauthorized
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUsernameImmutable indicates a profile update tried to rename
	// the account. The username is the storage key and never changes.
	// HTTP Status: 400 Bad Request
	ErrUsernameImmutable = errors.New("username cannot be changed")

	// ErrHashFormat indicates a stored credential hash is structurally
	// invalid. This points at data corruption, not user error, and is
	// never shown raw to the caller.
	ErrHashFormat = errors.New("malformed credential hash")
)

// Violation identifies a single failed password-policy rule.
type Violation string

// The five mandatory password rules.
const (
	ViolationTooShort    Violation = "too_short"
	ViolationNoUppercase Violation = "no_uppercase"
	ViolationNoLowercase Violation = "no_lowercase"
	ViolationNoDigit     Violation = "no_digit"
	ViolationNoSpecial   Violation = "no_special"
)

// PolicyError reports every password rule the candidate failed. Rules
// are evaluated independently, never short-circuited, so the caller can
// surface the full list in one round trip.
type PolicyError struct {
	Violations []Violation
}

func (e *PolicyError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = string(v)
	}
	return fmt.Sprintf("password policy: %s", strings.Join(parts, ", "))
}

// Has reports whether the given rule is among the violations.
func (e *PolicyError) Has(v Violation) bool {
	for _, got := range e.Violations {
		if got == v {
			return true
		}
	}
	return false
}

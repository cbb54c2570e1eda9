package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/terracast/auth-service/internal/core/domain"
	"github.com/terracast/auth-service/middleware"
)

// AccountService implements the account business rules: registration,
// credential verification, profile mutation, and logout. It depends on
// the domain contracts (injected via constructor) and MUST NOT access
// the database or SQL directly.
//
// No lock is held across the hashing step and the store write; they
// are two independent, retryable stages.
type AccountService struct {
	users    domain.UserRepository
	sessions *SessionManager
	hasher   *PasswordHasher

	// dummyHash is verified against when the username is unknown, so
	// the unknown-user path costs the same bcrypt work as the
	// wrong-password path.
	dummyHash string
}

// NewAccountService creates an AccountService with the given dependencies.
func NewAccountService(users domain.UserRepository, sessions *SessionManager, hasher *PasswordHasher) *AccountService {
	dummy, err := hasher.Hash(context.Background(), "enumeration-resistance-dummy")
	if err != nil {
		// Hash only fails for an out-of-range cost, which the config
		// validation has already rejected.
		panic("hash dummy credential: " + err.Error())
	}

	return &AccountService{
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		dummyHash: dummy,
	}
}

// Register creates a new account. The password must satisfy the policy
// (*PolicyError lists every violated rule) and the username must be
// free (ErrUsernameTaken). No session is issued; the caller logs in
// explicitly afterwards. A failed registration leaves no record.
func (s *AccountService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "account.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	if err := ValidatePassword(req.Password); err != nil {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, fmt.Errorf("register user %q: %w", req.Username, err)
	}

	passwordHash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Uniqueness is settled by the store, not checked up front, so two
	// concurrent registrations for one username cannot both succeed.
	if err := s.users.Create(ctx, req.Username, req.Email, passwordHash); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			span.SetAttributes(attribute.Bool("registration.success", false))
			return nil, fmt.Errorf("register user %q: %w", req.Username, ErrUsernameTaken)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(attribute.Bool("registration.success", true))
	span.AddEvent("user.registered")

	return &domain.User{Username: req.Username, Email: req.Email}, nil
}

// Authenticate verifies the credentials and, on success, issues a
// session token. An unknown username and a wrong password both come
// back as ErrInvalidCredentials, with matching bcrypt work on each
// path, so the two cases are not observably distinct.
func (s *AccountService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "account.authenticate", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	rec, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", req.Username, err)
	}
	if rec == nil {
		_, _ = s.hasher.Verify(req.Password, s.dummyHash)
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", req.Username, ErrInvalidCredentials)
	}

	ok, err := s.hasher.Verify(req.Password, rec.PasswordHash)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("verify credentials for %q: %w", req.Username, err)
	}
	if !ok {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", req.Username, ErrInvalidCredentials)
	}

	token, err := s.sessions.Issue(ctx, rec.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue session: %w", err)
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	span.AddEvent("user.authenticated")

	return &domain.AuthResponse{
		Token: token,
		User:  domain.User{Username: rec.Username, Email: rec.Email},
	}, nil
}

// GetUserByToken resolves a session token to its account, for the
// /auth/me endpoint. Unknown, expired, and orphaned tokens all come
// back as ErrUnauthorized.
func (s *AccountService) GetUserByToken(ctx context.Context, token string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "account.get_user_by_token", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	username, ok, err := s.sessions.Validate(ctx, token)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("validate session: %w", err)
	}
	if !ok {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, fmt.Errorf("lookup session: %w", ErrUnauthorized)
	}

	rec, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", username, err)
	}
	if rec == nil {
		// Session outlived its user record; treat it as revoked.
		_ = s.sessions.Revoke(ctx, token)
		return nil, fmt.Errorf("lookup session owner: %w", ErrUnauthorized)
	}

	span.SetAttributes(attribute.Bool("session.valid", true))

	return &domain.User{Username: rec.Username, Email: rec.Email}, nil
}

// UpdateProfile applies profile mutations for the session's owner.
// Only the email is mutable; a rename request fails with
// ErrUsernameImmutable because the username is the storage key.
func (s *AccountService) UpdateProfile(ctx context.Context, token string, req domain.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "account.update_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	username, ok, err := s.sessions.Validate(ctx, token)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("validate session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("update profile: %w", ErrUnauthorized)
	}

	if req.Username != nil && *req.Username != username {
		return nil, fmt.Errorf("update profile for %q: %w", username, ErrUsernameImmutable)
	}

	if req.Email != nil {
		if err := s.users.UpdateEmail(ctx, username, *req.Email); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("update email for %q: %w", username, err)
		}
		span.AddEvent("profile.email_updated")
	}

	rec, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("reload user %q: %w", username, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("reload user %q: %w", username, ErrUnauthorized)
	}

	return &domain.User{Username: rec.Username, Email: rec.Email}, nil
}

// ChangePassword rotates the credential for the session's owner. The
// current password is re-verified and the new one passes the policy
// before the stored hash is replaced. Existing sessions stay valid.
func (s *AccountService) ChangePassword(ctx context.Context, token string, req domain.ChangePasswordRequest) error {
	ctx, span := middleware.StartSpan(ctx, "account.change_password", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	username, ok, err := s.sessions.Validate(ctx, token)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("validate session: %w", err)
	}
	if !ok {
		return fmt.Errorf("change password: %w", ErrUnauthorized)
	}

	rec, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("query user %q: %w", username, err)
	}
	if rec == nil {
		return fmt.Errorf("change password: %w", ErrUnauthorized)
	}

	ok, err = s.hasher.Verify(req.CurrentPassword, rec.PasswordHash)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("verify current password: %w", err)
	}
	if !ok {
		return fmt.Errorf("change password for %q: %w", username, ErrInvalidCredentials)
	}

	if err := ValidatePassword(req.NewPassword); err != nil {
		return fmt.Errorf("change password for %q: %w", username, err)
	}

	newHash, err := s.hasher.Hash(ctx, req.NewPassword)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, username, newHash); err != nil {
		span.RecordError(err)
		return fmt.Errorf("store new password for %q: %w", username, err)
	}

	span.AddEvent("password.changed")
	return nil
}

// Logout revokes the session. Idempotent: logging out twice, or with a
// token that was never issued, succeeds.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	ctx, span := middleware.StartSpan(ctx, "account.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := s.sessions.Revoke(ctx, token); err != nil {
		span.RecordError(err)
		return fmt.Errorf("logout: %w", err)
	}

	span.AddEvent("user.logged_out")
	return nil
}

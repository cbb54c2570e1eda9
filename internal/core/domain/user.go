// Package domain holds the entities, request/response types, and the
// data-access contracts the Logic layer depends on. Implementations of
// the contracts live in internal/core/repository.
package domain

// User is the public view of an account. The password hash never
// leaves the Core and Logic layers.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// LoginRequest is the payload for credential verification.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries optional profile mutations. Username is
// accepted in the payload only so the service can reject renames
// explicitly; it is never applied.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// ChangePasswordRequest carries a password rotation. The current
// password is re-verified before the new one is stored.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// AuthResponse is returned on successful authentication. The token is
// opaque; the caller stores it and presents it on subsequent requests.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

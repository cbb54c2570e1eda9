// Package v1 exposes the account service over HTTP. Every outcome from
// the logic layer is mapped to a status code here; no error escapes
// this boundary unclassified.
package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/terracast/auth-service/internal/core/domain"
	logicv1 "github.com/terracast/auth-service/internal/logic/v1"
	"github.com/terracast/auth-service/middleware"
)

// Handler groups HTTP handlers for the auth API v1. Dependencies are
// injected via the constructor; there is no global state.
type Handler struct {
	accounts *logicv1.AccountService
}

// NewHandler creates a new Handler with the given AccountService.
func NewHandler(accounts *logicv1.AccountService) *Handler {
	return &Handler{accounts: accounts}
}

// RegisterRoutes registers all auth API v1 routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/me", h.GetMe)
	rg.PATCH("/profile", h.UpdateProfile)
	rg.PUT("/profile/password", h.ChangePassword)
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	const prefix = "Bearer "

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, prefix) || len(header) == len(prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

// Register handles POST /auth/register. No session is issued; the
// client logs in explicitly afterwards.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.register", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Register(ctx, req)
	if err != nil {
		span.RecordError(err)

		var policyErr *logicv1.PolicyError
		switch {
		case errors.As(err, &policyErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Password too weak",
				"violations": policyErr.Violations,
			})
		case errors.Is(err, logicv1.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		default:
			logger.Error().Err(err).Str("username", req.Username).Msg("Registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info().Str("username", user.Username).Msg("Registration successful")
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /auth/login. Unknown users and wrong passwords
// produce the identical response, so the endpoint cannot be used to
// enumerate usernames.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.login", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.accounts.Authenticate(ctx, req)
	if err != nil {
		span.RecordError(err)

		if errors.Is(err, logicv1.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error().Err(err).Msg("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Info().Str("username", response.User.Username).Msg("Login successful")
	c.JSON(http.StatusOK, response)
}

// GetMe handles GET /auth/me: resolves the bearer token to its account.
func (h *Handler) GetMe(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.me", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return
	}

	user, err := h.accounts.GetUserByToken(ctx, token)
	if err != nil {
		span.RecordError(err)

		if errors.Is(err, logicv1.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("Token lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile handles PATCH /profile. Email is the only mutable
// field; a rename attempt is rejected outright.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.update_profile", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return
	}

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.UpdateProfile(ctx, token, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		case errors.Is(err, logicv1.ErrUsernameImmutable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username cannot be changed"})
		default:
			logger.Error().Err(err).Msg("Profile update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info().Str("username", user.Username).Msg("Profile updated")
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword handles PUT /profile/password.
func (h *Handler) ChangePassword(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.change_password", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return
	}

	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.ChangePassword(ctx, token, req); err != nil {
		span.RecordError(err)

		var policyErr *logicv1.PolicyError
		switch {
		case errors.Is(err, logicv1.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		case errors.Is(err, logicv1.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.As(err, &policyErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Password too weak",
				"violations": policyErr.Violations,
			})
		default:
			logger.Error().Err(err).Msg("Password change failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info().Msg("Password changed")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Logout handles POST /auth/logout. Idempotent: logging out an already
// revoked or unknown token also returns 204.
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.logout", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return
	}

	if err := h.accounts.Logout(ctx, token); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/middleware"
	"github.com/kidwise/api/internal/models"
	"github.com/kidwise/api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenRevoker remembers logged-out tokens until they expire.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
}

type AuthSettings struct {
	JWTSecret    string
	TokenTTL     time.Duration
	SecureCookie bool
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users    repository.UserRepository
	revoker  TokenRevoker
	settings AuthSettings
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler. revoker may be nil, in which
// case logout only clears the cookie.
func NewAuthHandler(users repository.UserRepository, revoker TokenRevoker, settings AuthSettings, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, revoker: revoker, settings: settings, logger: logger}
}

// SignupRequest is the request body for signup
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
	Name     string `json:"name" binding:"max=100"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserPayload struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// AuthResponse is the response for auth endpoints
type AuthResponse struct {
	User UserPayload `json:"user"`
}

func userPayload(u *models.User) UserPayload {
	return UserPayload{ID: u.ID, Email: u.Email, Name: u.Name}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup godoc
// @Summary Create a parent account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Account"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} middleware.APIError
// @Failure 409 {object} middleware.APIError
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(c, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		middleware.InternalError(c, "Failed to signup")
		return
	}

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hashedPassword),
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			middleware.Conflict(c, "Email already in use")
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		middleware.InternalError(c, "Failed to signup")
		return
	}

	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{User: userPayload(user)})
}

// Login godoc
// @Summary Log in and receive the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} middleware.APIError
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(c, err)
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			h.logger.Error("failed to load user", zap.Error(err))
			middleware.InternalError(c, "Failed to login")
			return
		}
		middleware.Unauthorized(c, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		middleware.Unauthorized(c, "Invalid credentials")
		return
	}

	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, AuthResponse{User: userPayload(user)})
}

// Logout godoc
// @Summary End the current session
// @Tags auth
// @Produce json
// @Success 200 {object} OKResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := middleware.GetClaims(c); ok && h.revoker != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := h.revoker.RevokeToken(c.Request.Context(), claims.ID, ttl); err != nil {
			h.logger.Warn("failed to revoke token", zap.Error(err))
		}
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, OKResponse{OK: true})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} AuthResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.Unauthorized(c, "Not authenticated")
			return
		}
		h.logger.Error("failed to load user", zap.Error(err))
		middleware.InternalError(c, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: userPayload(user)})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) bool {
	token, _, err := middleware.IssueToken(h.settings.JWTSecret, user.ID, user.Email, h.settings.TokenTTL)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		middleware.InternalError(c, "Failed to start session")
		return false
	}
	h.setCookie(c, token, int(h.settings.TokenTTL.Seconds()))
	return true
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, value, maxAge, "/", "", h.settings.SecureCookie, true)
}

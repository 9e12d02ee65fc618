package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// AuthCookieName holds the session JWT
	AuthCookieName = "auth_token"

	contextUserID = "user_id"
	contextClaims = "claims"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims issued at login
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// TokenRevocations reports tokens revoked by logout.
type TokenRevocations interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// IssueToken signs an HS256 token for the user valid for ttl.
func IssueToken(secret string, userID uuid.UUID, email string, ttl time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// ParseToken verifies signature and expiry.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Auth requires a valid session token from the auth cookie or a Bearer
// header. revocations may be nil; a failing revocation store is logged and
// the token accepted.
func Auth(secret string, revocations TokenRevocations, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			Unauthorized(c, "Not authenticated")
			return
		}

		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			Unauthorized(c, "Invalid or expired session")
			return
		}

		if revocations != nil && claims.ID != "" {
			revoked, err := revocations.IsTokenRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("token revocation check failed", zap.Error(err))
			} else if revoked {
				Unauthorized(c, "Session has ended")
				return
			}
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextClaims, claims)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// GetUserID returns the authenticated user's ID
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(contextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetClaims returns the claims of the authenticated session
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(contextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

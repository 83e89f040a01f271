package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/auth"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/interfaces/http/dto"
)

// Auth context keys
const (
	AuthUserIDKey = "auth_user_id"
	AuthEmailKey  = "auth_email"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AdminChecker reports whether a user holds the admin role
type AdminChecker interface {
	IsAdmin(ctx context.Context, id string) (bool, error)
}

// RequireAuth verifies the session token and stores the caller's
// identity on the gin context
func RequireAuth(verifier *auth.SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Missing token")
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			abortUnauthorized(c, code, "Session verification failed")
			return
		}

		c.Set(AuthUserIDKey, claims.Subject)
		c.Set(AuthEmailKey, claims.Email)
		c.Next()
	}
}

// RequireAdmin allows only callers whose local user row carries the
// admin role. Must run after RequireAuth.
func RequireAdmin(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetAuthUserID(c)
		if userID == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		isAdmin, err := checker.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "Could not verify permissions"))
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Admin role required"))
			return
		}

		c.Next()
	}
}

// GetAuthUserID returns the authenticated user's provider ID, or ""
func GetAuthUserID(c *gin.Context) string {
	return c.GetString(AuthUserIDKey)
}

// GetAuthEmail returns the authenticated user's email, or ""
func GetAuthEmail(c *gin.Context) string {
	return c.GetString(AuthEmailKey)
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/auth"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newVerifier() *auth.SessionVerifier {
	return auth.NewSessionVerifier(config.AuthConfig{
		SessionSecret: "test-secret-key-that-is-long-enough",
		Issuer:        "storefront-api",
	})
}

func authTestRouter(verifier *auth.SessionVerifier) *gin.Engine {
	router := gin.New()
	router.GET("/me", RequireAuth(verifier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetAuthUserID(c),
			"email":   GetAuthEmail(c),
		})
	})
	return router
}

func TestRequireAuth(t *testing.T) {
	verifier := newVerifier()
	router := authTestRouter(verifier)

	t.Run("accepts a valid token and exposes the identity", func(t *testing.T) {
		token, err := verifier.SignForTest("user_2abc", "hieu@example.com", time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user_2abc")
		assert.Contains(t, w.Body.String(), "hieu@example.com")
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a non-bearer header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token, err := verifier.SignForTest("user_2abc", "hieu@example.com", -time.Minute)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type staticAdminChecker struct {
	admins map[string]bool
}

func (s staticAdminChecker) IsAdmin(_ context.Context, id string) (bool, error) {
	return s.admins[id], nil
}

func TestRequireAdmin(t *testing.T) {
	verifier := newVerifier()
	checker := staticAdminChecker{admins: map[string]bool{"user_adm": true}}

	router := gin.New()
	router.GET("/admin", RequireAuth(verifier), RequireAdmin(checker), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("allows an admin", func(t *testing.T) {
		token, err := verifier.SignForTest("user_adm", "admin@example.com", time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("forbids a regular user", func(t *testing.T) {
		token, err := verifier.SignForTest("user_2abc", "hieu@example.com", time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		userID, _ := utils.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	r.GET("/protected", chain...)
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := protectedRouter(AuthRequired())

	t.Run("missing header", func(t *testing.T) {
		w := doGet(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(r, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		userID := uuid.New()
		token, err := utils.GenerateJWT(userID, "Asha Mehta", "agent", true, 24)
		assert.NoError(t, err)

		w := doGet(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})
}

func TestApprovedAgentRequired(t *testing.T) {
	r := protectedRouter(AuthRequired(), ApprovedAgentRequired())

	t.Run("unapproved agent forbidden", func(t *testing.T) {
		token, err := utils.GenerateJWT(uuid.New(), "New Agent", "agent", false, 24)
		assert.NoError(t, err)

		w := doGet(r, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "pending admin approval")
	})

	t.Run("approved broker passes", func(t *testing.T) {
		token, err := utils.GenerateJWT(uuid.New(), "Busy Broker", "broker", true, 24)
		assert.NoError(t, err)

		w := doGet(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin passes without approval flag", func(t *testing.T) {
		token, err := utils.GenerateJWT(uuid.New(), "Admin", "admin", false, 24)
		assert.NoError(t, err)

		w := doGet(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAdminRequired(t *testing.T) {
	r := protectedRouter(AuthRequired(), AdminRequired())

	t.Run("agent forbidden", func(t *testing.T) {
		token, err := utils.GenerateJWT(uuid.New(), "Asha Mehta", "agent", true, 24)
		assert.NoError(t, err)

		w := doGet(r, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Admin access required")
	})

	t.Run("admin allowed", func(t *testing.T) {
		token, err := utils.GenerateJWT(uuid.New(), "Admin", "admin", true, 24)
		assert.NoError(t, err)

		w := doGet(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

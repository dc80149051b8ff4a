package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddlewareHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	refresh, _ := GenerateRefreshToken(1, "ana@example.com", RoleMember, "secret")

	tests := []struct {
		name       string
		authHeader string
	}{
		{"Empty header", ""},
		{"Invalid format", "Token abc"},
		{"Empty token", "Bearer "},
		{"Garbage token", "Bearer not-a-jwt"},
		{"Refresh token", "Bearer " + refresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req := httptest.NewRequest("GET", "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			c.Request = req

			AuthMiddleware("secret")(c)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware("secret"))
	router.GET("/me", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": GetUserEmail(c)})
	})

	token, _ := GenerateAccessToken(9, "ana@example.com", RoleMember, "secret")
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 9, "email": "ana@example.com"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		userRole       any
		expectedStatus int
	}{
		{"Correct role", RoleAdmin, http.StatusOK},
		{"Missing role", nil, http.StatusUnauthorized},
		{"Wrong role type", 123, http.StatusUnauthorized},
		{"Insufficient role", RoleMember, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			if tt.userRole != nil {
				c.Set(ctxUserRole, tt.userRole)
			}
			c.Request = httptest.NewRequest("GET", "/", nil)

			RequireRole(RoleAdmin)(c)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set(ctxUserID, "not-an-int")
	_, ok = GetUserID(c)
	assert.False(t, ok)
}

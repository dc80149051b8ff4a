package auth

import (
	"errors"
	"net/http"
	"strings"

	"barslot/internal/api"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			abort(c, http.StatusUnauthorized, "Token is empty")
			return
		}

		claims, err := ValidateTokenOfType(tokenString, accessTokenSecret, TokenTypeAccess)
		switch {
		case errors.Is(err, ErrTokenExpired):
			abort(c, http.StatusUnauthorized, "Token expired")
			return
		case errors.Is(err, ErrInvalidTokenType):
			abort(c, http.StatusUnauthorized, "Access token required")
			return
		case err != nil:
			abort(c, http.StatusUnauthorized, "Invalid or malformed token")
			return
		}

		SetIdentity(c, claims.UserID, claims.Email, claims.Role)
		c.Next()
	}
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxUserRole)
		if !exists {
			abort(c, http.StatusUnauthorized, "User role not found")
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			abort(c, http.StatusUnauthorized, "Invalid role type")
			return
		}

		if roleStr != requiredRole {
			abort(c, http.StatusForbidden, "Insufficient permissions")
			return
		}

		c.Next()
	}
}

// SetIdentity stores the resolved caller on the request context.
func SetIdentity(c *gin.Context, userID int, email, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxUserEmail, email)
	c.Set(ctxUserRole, role)
}

func GetUserID(c *gin.Context) (int, bool) {
	id, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	userID, ok := id.(int)
	return userID, ok
}

func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmail)
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: msg})
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"invoice_generator/internal/model"
	"invoice_generator/internal/service"

	"github.com/gin-gonic/gin"
)

const AuthUserKey = "authUser"

// JWTAuthMiddleware creates a middleware for JWT authentication. Requests are
// rejected before any handler runs unless the bearer token resolves to a user.
func JWTAuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		user, err := authService.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			RequestLog(c).WithError(err).Error("Failed to verify bearer token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate request"})
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok && user != nil
}

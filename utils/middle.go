package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies JWT and sets user context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Set("username", claims.Username)
		c.Set("user_id", claims.UserId)
		c.Next()
	}
}

// OptionalAuthMiddleware sets user context when a valid token is
// present and lets anonymous requests through untouched. Used on the
// upload endpoints, which accept both owners and anonymous actors.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c); ok {
			c.Set("username", claims.Username)
			c.Set("user_id", claims.UserId)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context) (*Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return nil, false
	}
	claims, err := VerifyToken(tokenParts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// CurrentUserID returns the authenticated user id, or nil for
// anonymous requests that came through OptionalAuthMiddleware.
func CurrentUserID(c *gin.Context) *string {
	value, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := value.(string)
	if !ok || id == "" {
		return nil
	}
	return &id
}

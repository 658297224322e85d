package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"spendwise-api/utils"
)

const userIDKey = "user_id"

// AuthMiddleware rejects requests without a valid Bearer token and stores
// the authenticated user id in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			return
		}

		userID, err := utils.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or "" outside an
// authenticated request.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get(userIDKey)
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

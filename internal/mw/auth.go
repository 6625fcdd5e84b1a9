package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"parksystem-backend/internal/auth"
)

const (
	userIDKey   = "user_id"
	usernameKey = "username"
)

// Auth rejects requests without a valid bearer access token and stores the caller's
// identity in the context.
func Auth(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := issuer.Parse(token, auth.KindAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// UserID returns the id of the authenticated caller, or 0.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

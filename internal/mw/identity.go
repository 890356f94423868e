package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the caller's user id.
const UserIDKey = "userID"

// UserIDHeader carries the authenticated caller's id. Authentication
// itself happens upstream (gateway); this service only requires the header
// to be present.
const UserIDHeader = "X-User-ID"

// Identity extracts the caller's user id from the request headers.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + UserIDHeader + " header"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the caller's user id set by Identity.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

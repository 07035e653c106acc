package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-bff/models"
)

// RequireAuth aborts with 401 when no principal is logged in.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireAdminAccess gates the back office: admin and manager only.
func RequireAdminAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		sm := SessionFrom(c)
		if !sm.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !sm.HasAdminAccess() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// RequireRole gates a route group to a single role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sm := SessionFrom(c)
		if !sm.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		user := sm.User()
		if user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

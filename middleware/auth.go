package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

const (
	adminKey       = "admin"
	permissionsKey = "permissions"
)

// Authenticate requires a valid Bearer access token and loads the admin with
// their role permissions.
func Authenticate(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		claims, err := auth.ParseAccessToken(token)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}
		admin, err := auth.LoadAdmin(claims.UserID)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}
		if !admin.IsActive {
			utils.JSONError(c, http.StatusForbidden, "Account is disabled")
			c.Abort()
			return
		}

		c.Set(adminKey, admin)
		c.Set(permissionsKey, admin.PermissionList())
		c.Next()
	}
}

// Authorize passes when the admin holds any one of perms.
func Authorize(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		granted := c.GetStringSlice(permissionsKey)
		if !utils.HasAnyPermission(granted, perms...) {
			utils.JSONError(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentAdmin returns the admin set by Authenticate, or nil.
func CurrentAdmin(c *gin.Context) *models.AdminUser {
	v, ok := c.Get(adminKey)
	if !ok {
		return nil
	}
	admin, _ := v.(*models.AdminUser)
	return admin
}

// Actor describes the caller for audit records.
func Actor(c *gin.Context) services.Actor {
	actor := services.Actor{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	if admin := CurrentAdmin(c); admin != nil {
		actor.AdminID = admin.ID
		if admin.Role != nil {
			actor.Role = admin.Role.Name
		}
	}
	return actor
}

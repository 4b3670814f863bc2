package middleware

import (
	"github.com/Aghostraa/abcr-platform/internal/constants"
	apierrors "github.com/Aghostraa/abcr-platform/internal/errors"
	"github.com/Aghostraa/abcr-platform/internal/models"
	"github.com/Aghostraa/abcr-platform/internal/repository"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.SessionKeyUserID)
		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		if email := session.Get(constants.SessionKeyUserEmail); email != nil {
			c.Set(constants.ContextKeyUserEmail, email)
		}
		c.Next()
	}
}

// ResolveRole resolves the caller's role through the remote role-lookup
// procedure once per request and stores it in the context, so handlers work
// with an explicit identity+role pair instead of re-fetching it ad hoc.
func ResolveRole(roles repository.RoleStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := GetUserEmail(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		role, err := roles.GetUserRole(email)
		if err != nil {
			apierrors.InternalError(c, "Error fetching user role")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserRole, role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the resolved role is in the allow list.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		for _, r := range allowed {
			if r == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "")
		c.Abort()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// GetUserEmail retrieves the current user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	v, exists := c.Get(constants.ContextKeyUserEmail)
	if !exists {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

// GetUserRole retrieves the resolved role from context
func GetUserRole(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}

package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
)

// RequireAdmin rejects requests from non-admin users. It must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/teamtrackhq/teamtrack-api/internal/constants"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
)

// RequireAuth resolves the session to a user and stores both the ID and the
// loaded model in the request context. Requests without a valid session or
// with a non-active account are rejected.
func RequireAuth(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(constants.ContextKeyUserID)
		if raw == nil {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		userID, ok := raw.(uint64)
		if !ok {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !user.IsActive() {
			apierrors.Forbidden(c, "Your account is not active")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUserID extracts the authenticated user's ID from the context.
func GetUserID(c *gin.Context) (uint64, bool) {
	raw, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := raw.(uint64)
	return id, ok
}

// CurrentUser extracts the authenticated user model from the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	raw, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*models.User)
	return user, ok
}

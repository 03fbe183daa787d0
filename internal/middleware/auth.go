package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"projectdesk/internal/constants"
	"projectdesk/internal/database"
	apierrors "projectdesk/internal/errors"
	"projectdesk/internal/models"
)

// RequireAuth resolves the session into an acting identity. Beyond the usual
// cookie check it verifies the account's security stamp: deleting a worker
// rotates the stamp, so stale sessions die here no matter how fresh their
// cookie is.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		accountID, okID := session.Get(constants.SessionKeyAccountID).(uint64)
		stamp, okStamp := session.Get(constants.SessionKeySecurityStamp).(string)
		if !okID || !okStamp {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var account models.Account
		if err := database.GetDB().First(&account, accountID).Error; err != nil {
			clearSession(c)
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if account.IsDisabled || account.SecurityStamp != stamp {
			clearSession(c)
			apierrors.Unauthorized(c, "Session is no longer valid")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, models.Identity{
			AccountID: account.ID,
			Username:  account.Email,
			Role:      account.Role,
		})
		c.Next()
	}
}

// RequireAdmin gates mutating routes to admins. Role gating alone is at work
// here, no ownership ambiguity, so unlike denied reads this answers an
// honest 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !identity.IsAdmin() {
			apierrors.Forbidden(c, "Admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetIdentity retrieves the acting identity from context
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return models.Identity{}, false
	}

	identity, ok := value.(models.Identity)
	return identity, ok
}

func clearSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
}

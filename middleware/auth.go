package middleware

import (
	"context"
	"net/http"

	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/utils"
	"github.com/gin-gonic/gin"
)

// UserResolver turns a session's user id into a user.
type UserResolver interface {
	CurrentUser(ctx context.Context, userID uint) (*models.User, error)
}

// SessionAuthMiddleware admits requests whose session cookie names an
// existing user and stores that user under utils.ContextUserKey.
func SessionAuthMiddleware(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := utils.SessionUserID(c)
		if !ok {
			utils.LogDebug("Unauthenticated request to %s", c.Request.URL.Path)
			abortUnauthorized(c)
			return
		}

		user, err := users.CurrentUser(c.Request.Context(), userID)
		if err != nil {
			if utils.IsUnauthorizedError(err) {
				utils.LogError("Session refers to missing user ID: %d", userID)
				_ = utils.ClearSession(c)
				abortUnauthorized(c)
				return
			}
			utils.RespondError(c, err)
			c.Abort()
			return
		}

		c.Set(utils.ContextUserKey, *user)
		c.Next()
	}
}

// CurrentUser returns the user stored by SessionAuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(utils.ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.StandardResponse{
		Status:  "error",
		Message: utils.ErrLoginRequired,
		Error:   utils.ErrLoginRequired,
	})
}

package utils

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SetSessionUser records the authenticated user in the session cookie
func SetSessionUser(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(SessionUserKey, userID)
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}
	return nil
}

// SessionUserID returns the user id stored in the session, if any
func SessionUserID(c *gin.Context) (uint, bool) {
	session := sessions.Default(c)
	id, ok := session.Get(SessionUserKey).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// ClearSession drops everything in the session and expires the cookie
func ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to clear session: %v", err)
	}
	return nil
}

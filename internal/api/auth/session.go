package auth

import (
	"encoding/gob"
	"fmt"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/models"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionName is the name of the session cookie.
const SessionName = "ipba_session"

const (
	keyUserID    = "user_id"
	keySessionID = "sid"
	keyUser      = "user"
)

func init() {
	gob.Register(models.Flash{})
}

// Login stores the user in the session. With remember set the cookie outlives the browser session.
func Login(c *gin.Context, user *database.User, remember bool, opts sessions.Options) error {
	session := sessions.Default(c)
	session.Clear()
	if remember {
		session.Options(opts)
	}
	session.Set(keyUserID, user.ID)
	session.Set(keySessionID, uuid.NewString())
	c.Set(keyUser, user)
	return session.Save()
}

// Logout clears the session.
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	c.Set(keyUser, (*database.User)(nil))
	return session.Save()
}

// SessionID returns the random id of the current session, creating one if needed.
// Short-lived challenges are bound to it.
func SessionID(c *gin.Context) (string, error) {
	session := sessions.Default(c)
	if sid, ok := session.Get(keySessionID).(string); ok && sid != "" {
		return sid, nil
	}
	sid := uuid.NewString()
	session.Set(keySessionID, sid)
	if err := session.Save(); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return sid, nil
}

// CurrentUser returns the logged in user or nil.
func CurrentUser(c *gin.Context) *database.User {
	user, _ := c.Get(keyUser)
	u, _ := user.(*database.User)
	return u
}

// AddFlash queues a message for the next page.
func AddFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(models.Flash{Category: category, Message: message})
	if err := session.Save(); err != nil {
		_ = c.Error(err)
	}
}

// Flashes pops the queued messages.
func Flashes(c *gin.Context) []models.Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return []models.Flash{}
	}
	out := make([]models.Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(models.Flash); ok {
			out = append(out, flash)
		}
	}
	if err := session.Save(); err != nil {
		_ = c.Error(err)
	}
	return out
}

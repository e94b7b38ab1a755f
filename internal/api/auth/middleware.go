package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/models"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/policy"
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// UserLoader resolves the user id stored in the session.
type UserLoader interface {
	CurrentUser(ctx context.Context, id uint) (*database.User, error)
}

// LoadUser puts the logged in user, if any, into the request context.
// Sessions of deleted accounts are cleared.
func LoadUser(loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(keyUserID).(uint)
		if !ok || id == 0 {
			c.Next()
			return
		}
		user, err := loader.CurrentUser(c.Request.Context(), id)
		if err != nil {
			log.Debug("dropping session of unknown user", "user_id", id, "error", err)
			session.Delete(keyUserID)
			if err := session.Save(); err != nil {
				log.Error("failed to save session", "error", err)
			}
			c.Next()
			return
		}
		c.Set(keyUser, user)
		c.Next()
	}
}

// RequireAuth redirects anonymous visitors to the login page.
func RequireAuth() gin.HandlerFunc {
	return Require(policy.NewEngine(policy.Authenticated))
}

// RequireAdmin rejects everyone but administrators.
func RequireAdmin() gin.HandlerFunc {
	return Require(policy.NewEngine(policy.Admin))
}

// Require applies the policies to the current user. Anonymous visitors are sent to the
// login page, every other failure gets a plain 403.
func Require(p *policy.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := p.Check(CurrentUser(c))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, policy.ErrUnauthenticated):
			AddFlash(c, models.FlashInfo, "Please log in to access this page.")
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
		default:
			c.String(http.StatusForbidden, http.StatusText(http.StatusForbidden))
			c.Abort()
		}
	}
}

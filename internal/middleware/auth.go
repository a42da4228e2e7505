package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// CheckUserKey is the gin context key holding the logged-in *models.User.
const CheckUserKey = "user"

// SessionUserKey is the session key holding the logged-in user's id.
const SessionUserKey = "user_id"

// LoginPath is where anonymous visitors of protected pages are sent.
const LoginPath = "/auth/login/"

// CurrentUser returns the logged-in user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// CurrentUserID returns the logged-in user's id, or 0.
func CurrentUserID(c *gin.Context) uint {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// LoginURL builds the login redirect for a protected path. Slashes in next
// are left readable, e.g. /auth/login/?next=/create/.
func LoginURL(next string) string {
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// AuthRequired ensures a user is logged in. It relies on LoadUser having run.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserKey).(uint)
		if ok && userID != 0 {
			user, err := users.GetByID(c.Request.Context(), userID)
			switch {
			case err == nil:
				c.Set(CheckUserKey, user)
			case models.IsNotFound(err):
				// Stale cookie for a user that no longer exists.
				session.Delete(SessionUserKey)
				_ = session.Save()
			default:
				log.WithError(err).Warn("failed to load session user")
			}
		}
		c.Next()
	}
}

// Login stores the user in the session.
func Login(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(SessionUserKey, user.ID)
	return session.Save()
}

// Logout clears the session.
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/service/session"
)

const (
	identityKey   = "identity"
	sessionCookie = "session"
	sessionHeader = "X-Session-Token"
)

// sessionMiddleware resolves the caller's session token, issuing a fresh
// anonymous one when there is none. The token travels as a cookie or bearer
// header; new tokens are echoed in both places.
func sessionMiddleware(sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := sessions.Resolve(c.Request.Context(), requestToken(c))
		if err != nil {
			if !errors.Is(err, session.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				return
			}
			token, err := sessions.Begin(c.Request.Context())
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				return
			}
			ident = &session.Identity{Token: token}
			c.SetCookie(sessionCookie, token, 30*24*3600, "/", "", false, true)
			c.Header(sessionHeader, token)
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if token, err := c.Cookie(sessionCookie); err == nil {
		return token
	}
	return ""
}

func identity(c *gin.Context) *session.Identity {
	v, _ := c.Get(identityKey)
	ident, _ := v.(*session.Identity)
	return ident
}

// requireUser redirects anonymous callers to the login page, keeping the
// requested path as the next target.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := identity(c)
		if ident == nil || ident.User == nil {
			c.Redirect(http.StatusSeeOther, "/login?next="+c.Request.URL.Path)
			c.Abort()
			return
		}
		c.Next()
	}
}

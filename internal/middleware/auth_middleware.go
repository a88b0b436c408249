package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skosana/student-portal/internal/pkg/session"
)

// Context keys set by the session guard.
const (
	ContextUserIDKey  = "userID"
	ContextSessionKey = "session"
)

// SessionMiddleware guards authenticated routes with the session store.
type SessionMiddleware struct {
	sessions session.Store
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(sessions session.Store) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// RequireAuth redirects unauthenticated requests to the login page. Every
// authenticated page load passes through this check.
func (m *SessionMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.TokenFromRequest(c)
		if token == "" {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		sess, ok := m.sessions.Get(token)
		if !ok {
			// Unknown or expired token: clear the stale cookie too.
			session.ClearCookie(c)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, sess.UserID)
		c.Set(ContextSessionKey, sess)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID from the context.
// The second return is false when the guard did not run.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

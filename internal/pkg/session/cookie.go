package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the name of the session token cookie.
const CookieName = "portal_session"

// SetCookie delivers the session token to the client. The cookie is HttpOnly
// so scripts cannot read the token.
func SetCookie(c *gin.Context, sess *Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := int(sess.ExpiresAt.Sub(sess.CreatedAt).Seconds())
	c.SetCookie(CookieName, sess.Token, maxAge, "/", "", false, true)
}

// ClearCookie expires the session cookie on the client.
func ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// TokenFromRequest extracts the session token from the request cookie.
// Returns an empty string when no cookie is present.
func TokenFromRequest(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}

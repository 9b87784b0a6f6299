// internal/pkg/token/cookie.go
package token

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie consumed by the admin panel.
const CookieName = "admin_session"

// SetSessionCookie attaches the session token to the response.
// HttpOnly + SameSite=Lax always; Secure only in production.
func SetSessionCookie(c *gin.Context, tokenStr string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, tokenStr, int(SessionTTL.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie deletes the session cookie. Idempotent: clearing an
// absent cookie is a no-op for the browser.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}

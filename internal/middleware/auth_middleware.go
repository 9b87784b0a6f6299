// internal/middleware/auth_middleware.go
package middleware

import (
	"sundarban-service/internal/pkg/response"
	"sundarban-service/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens *token.Manager
}

func NewAuthMiddleware(tokens *token.Manager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Auth gates admin routes on the session cookie. Validity is the
// cookie's signed expiry; there is no server-side session table to
// consult.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(token.CookieName)
		if err != nil || cookie == "" {
			response.Unauthorized(c, "missing session")
			return
		}

		claims, err := m.tokens.Verify(cookie)
		if err != nil {
			response.Unauthorized(c, "invalid or expired session")
			return
		}

		c.Set("admin_id", claims.AdminID)
		c.Set("session_jti", claims.ID)

		c.Next()
	}
}

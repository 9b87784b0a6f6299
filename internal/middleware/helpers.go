// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetAdminID gets the authenticated admin id from context
func GetAdminID(c *gin.Context) (string, bool) {
	v, exists := c.Get("admin_id")
	if !exists {
		return "", false
	}

	id, ok := v.(string)
	if !ok {
		return "", false
	}

	return id, true
}

// MustGetAdminID gets the admin id from context or panics
func MustGetAdminID(c *gin.Context) string {
	id, exists := GetAdminID(c)
	if !exists {
		panic("admin_id not found in context")
	}
	return id
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("admin_id")
	return exists
}

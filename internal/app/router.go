// internal/app/router.go
package app

import (
	authHandler "sundarban-service/internal/handlers/auth"
	"sundarban-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Public Admin Routes ====================
	adminPublic := r.Group("/admin")
	{
		adminPublic.POST("/login", h.AuthHandler.Login)
		adminPublic.GET("/exists", h.AuthHandler.Exists)
		adminPublic.POST("/forgot-password", h.AuthHandler.ForgotPassword)
		adminPublic.POST("/reset-password", h.AuthHandler.ResetPassword)
		adminPublic.POST("/logout", h.AuthHandler.Logout)
	}

	// ==================== Session-Gated Admin Routes ====================
	adminProtected := r.Group("/admin")
	adminProtected.Use(h.AuthMiddleware.Auth())
	{
		adminProtected.GET("/dashboard", h.AuthHandler.Dashboard)
	}
}

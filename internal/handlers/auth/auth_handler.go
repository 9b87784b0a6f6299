// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"sundarban-service/internal/domain/admin"
	"sundarban-service/internal/middleware"
	xerrors "sundarban-service/internal/pkg/errors"
	"sundarban-service/internal/pkg/response"
	"sundarban-service/internal/pkg/token"
	authUsecase "sundarban-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	dashboardPath = "/admin/dashboard"
	loginPath     = "/admin/login"
)

type AuthHandler struct {
	authService   *authUsecase.AuthService
	secureCookies bool
	logger        *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// ========== Bootstrap / Login ==========

// Login handles the combined first-run-registration/login form. Success
// sets the session cookie and navigates to the dashboard; failures come
// back as a short message for the form to display.
func (h *AuthHandler) Login(c *gin.Context) {
	var req admin.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, xerrors.ErrFieldsRequired.Error(), nil)
		return
	}
	req.IP = c.ClientIP()

	result, err := h.authService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "login failed", zap.String("email", req.Email), zap.String("ip", req.IP))
		return
	}

	if result.Bootstrapped {
		h.logger.Info("admin account bootstrapped", zap.String("email", req.Email))
	} else {
		h.logger.Info("admin logged in", zap.String("admin_id", result.Admin.ID))
	}

	token.SetSessionCookie(c, result.Token, h.secureCookies)
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// Exists tells the login page whether to render "Create Account" or
// "Login".
func (h *AuthHandler) Exists(c *gin.Context) {
	exists, err := h.authService.AdminExists(c.Request.Context())
	if err != nil {
		h.fail(c, err, "admin existence check failed")
		return
	}

	response.Success(c, http.StatusOK, "ok", gin.H{"exists": exists})
}

// ========== Password Recovery ==========

// ForgotPassword issues a reset code to the admin's email.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req admin.ForgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, xerrors.ErrInvalidEmail.Error(), nil)
		return
	}

	issued, err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, err, "password reset request failed", zap.String("email", req.Email))
		return
	}

	if !issued.EmailSent {
		// The code is in the store; the operator just has to ask again
		// or be handed the code out of band.
		response.Success(c, http.StatusOK, "reset code stored but email failed to send", nil)
		return
	}

	response.Success(c, http.StatusOK, "reset code sent to your email", nil)
}

// ResetPassword redeems a code and installs a new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req admin.ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, xerrors.ErrFieldsRequired.Error(), nil)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.fail(c, err, "password reset failed", zap.String("email", req.Email))
		return
	}

	response.Success(c, http.StatusOK, "password reset successful, please log in", nil)
}

// ========== Logout ==========

// Logout clears the session cookie and returns to the login page.
// Idempotent: with no session it still just clears and redirects.
func (h *AuthHandler) Logout(c *gin.Context) {
	token.ClearSessionCookie(c, h.secureCookies)
	c.Redirect(http.StatusSeeOther, loginPath)
}

// ========== Dashboard ==========

// Dashboard is the session-gated landing route.
func (h *AuthHandler) Dashboard(c *gin.Context) {
	adminID := middleware.MustGetAdminID(c)
	response.Success(c, http.StatusOK, "welcome back", gin.H{"admin_id": adminID})
}

// fail maps service errors to HTTP responses. Sentinel errors carry
// their own user-facing text; anything else is logged and collapsed
// into the generic internal message.
func (h *AuthHandler) fail(c *gin.Context, err error, logMsg string, fields ...zap.Field) {
	switch {
	case errors.Is(err, xerrors.ErrFieldsRequired),
		errors.Is(err, xerrors.ErrInvalidEmail),
		errors.Is(err, xerrors.ErrCodeInvalid):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, xerrors.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, xerrors.ErrNoAdminAccount):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, xerrors.ErrRateLimited):
		response.Error(c, http.StatusTooManyRequests, "too many attempts, please try again later", nil)
	default:
		h.logger.Error(logMsg, append(fields, zap.Error(err))...)
		response.Error(c, http.StatusInternalServerError, xerrors.ErrInternal.Error(), nil)
	}
}

// internal/domain/admin/dto.go
package admin

// LoginRequest carries the login (or first-run registration) form fields.
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	IP       string `form:"-" json:"-"`
}

// ForgotPasswordRequest initiates the OTP recovery flow.
type ForgotPasswordRequest struct {
	Email string `form:"email" json:"email"`
}

// ResetPasswordRequest completes the OTP recovery flow.
type ResetPasswordRequest struct {
	Email       string `form:"email" json:"email"`
	OTP         string `form:"otp" json:"otp"`
	NewPassword string `form:"password" json:"password"`
}

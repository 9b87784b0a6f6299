// internal/domain/otp/entity.go
package otp

import "time"

// ResetCode is one outstanding password-reset code. Rows are append-only:
// requests never dedup against earlier codes, and expired rows are only
// removed by the burn-all delete that follows a successful reset.
type ResetCode struct {
	Email     string    `json:"email" db:"email"`
	Code      string    `json:"otp" db:"otp"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

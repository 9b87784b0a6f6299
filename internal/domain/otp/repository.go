// internal/domain/otp/repository.go
package otp

import "context"

type Repository interface {
	Create(ctx context.Context, rc *ResetCode) error
	// FindValid returns the reset code matching (email, code) with an
	// expiry still in the future, or xerrors.ErrNotFound.
	FindValid(ctx context.Context, email, code string) (*ResetCode, error)
	// DeleteForEmail removes every outstanding code for the email.
	DeleteForEmail(ctx context.Context, email string) error
}

package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrFieldsRequired     = errors.New("all fields are required")
	ErrInvalidCredentials = errors.New("Invalid email or password.")
	ErrNoAdminAccount     = errors.New("no admin account found with this email")
	ErrCodeInvalid        = errors.New("code is invalid or has expired")
	ErrInvalidEmail       = errors.New("a valid email address is required")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrRateLimited        = errors.New("too many requests")
	ErrInternal           = errors.New("internal error occurred")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}

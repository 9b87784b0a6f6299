// internal/repository/postgres/otp_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"sundarban-service/internal/domain/otp"
	xerrors "sundarban-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OTPRepository struct {
	db *pgxpool.Pool
}

func NewOTPRepository(db *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create appends a new reset code row. Outstanding codes for the same
// email are left untouched.
func (r *OTPRepository) Create(ctx context.Context, rc *otp.ResetCode) error {
	query := `
		INSERT INTO password_reset_otps (email, otp, expires_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Exec(ctx, query, rc.Email, rc.Code, rc.ExpiresAt); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	return nil
}

// FindValid matches an unexpired (email, otp) pair. Expired rows are
// simply unmatched here, not purged.
func (r *OTPRepository) FindValid(ctx context.Context, email, code string) (*otp.ResetCode, error) {
	query := `
		SELECT email, otp, expires_at
		FROM password_reset_otps
		WHERE email = $1 AND otp = $2 AND expires_at > NOW()
		LIMIT 1
	`

	var rc otp.ResetCode
	err := r.db.QueryRow(ctx, query, email, code).Scan(&rc.Email, &rc.Code, &rc.ExpiresAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find reset code: %w", err)
	}

	return &rc, nil
}

// DeleteForEmail burns every outstanding code for the email, consumed
// or not, so nothing stale can be replayed after a successful reset.
func (r *OTPRepository) DeleteForEmail(ctx context.Context, email string) error {
	query := `DELETE FROM password_reset_otps WHERE email = $1`

	if _, err := r.db.Exec(ctx, query, email); err != nil {
		return fmt.Errorf("failed to delete reset codes: %w", err)
	}

	return nil
}

// internal/repository/postgres/admin_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sundarban-service/internal/domain/admin"
	xerrors "sundarban-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// AnyExists reports whether at least one admin account exists. The
// zero-row state is what switches the login form into bootstrap mode,
// so this is always a fresh query, never cached.
func (r *AdminRepository) AnyExists(ctx context.Context) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM admins)`

	var exists bool
	if err := r.db.QueryRow(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check admin existence: %w", err)
	}

	return exists, nil
}

// Create inserts a new admin account.
func (r *AdminRepository) Create(ctx context.Context, a *admin.Admin) error {
	query := `
		INSERT INTO admins (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, a.ID, a.Email, a.PasswordHash).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// FindByEmail retrieves an admin account by email.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	query := `
		SELECT id, email, password_hash, last_login, created_at, updated_at
		FROM admins
		WHERE email = $1
	`

	var a admin.Admin
	err := r.db.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.LastLogin,
		&a.CreatedAt, &a.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	return &a, nil
}

// UpdateLastLogin updates the last login timestamp.
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE admins SET last_login = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, time.Now(), id)
	return err
}

// UpdatePasswordByEmail replaces the stored hash and bumps updated_at.
func (r *AdminRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	query := `UPDATE admins SET password_hash = $1, updated_at = NOW() WHERE email = $2`

	tag, err := r.db.Exec(ctx, query, passwordHash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// internal/domain/admin/repository.go
package admin

import "context"

type Repository interface {
	Create(ctx context.Context, a *Admin) error
	AnyExists(ctx context.Context) (bool, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	UpdateLastLogin(ctx context.Context, id string) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
}

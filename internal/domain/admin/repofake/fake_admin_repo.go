// Package repofake provides an in-memory admin repository for tests.
package repofake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sundarban-service/internal/domain/admin"
	xerrors "sundarban-service/internal/pkg/errors"
)

type FakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]*admin.Admin // keyed by email

	// CreateErr, when set, is returned by Create to simulate store
	// failures such as the duplicate-bootstrap race.
	CreateErr error
}

func NewFakeAdminRepo() *FakeAdminRepo {
	return &FakeAdminRepo{admins: make(map[string]*admin.Admin)}
}

func (f *FakeAdminRepo) Create(ctx context.Context, a *admin.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return f.CreateErr
	}
	if _, ok := f.admins[a.Email]; ok {
		return fmt.Errorf("duplicate key value violates unique constraint \"admins_email_key\"")
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	cp := *a
	f.admins[a.Email] = &cp
	return nil
}

func (f *FakeAdminRepo) AnyExists(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.admins) > 0, nil
}

func (f *FakeAdminRepo) FindByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.admins[email]
	if !ok {
		return nil, xerrors.ErrNotFound
	}

	cp := *a
	return &cp, nil
}

func (f *FakeAdminRepo) UpdateLastLogin(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.admins {
		if a.ID == id {
			now := time.Now()
			a.LastLogin = &now
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func (f *FakeAdminRepo) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.admins[email]
	if !ok {
		return xerrors.ErrNotFound
	}

	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now()
	return nil
}

// Count reports how many accounts the fake holds.
func (f *FakeAdminRepo) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.admins)
}

// Get returns the stored account for an email, or nil.
func (f *FakeAdminRepo) Get(email string) *admin.Admin {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.admins[email]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

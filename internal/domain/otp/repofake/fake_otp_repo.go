// Package repofake provides an in-memory reset-code repository for tests.
package repofake

import (
	"context"
	"sync"
	"time"

	"sundarban-service/internal/domain/otp"
	xerrors "sundarban-service/internal/pkg/errors"
)

type FakeOTPRepo struct {
	mu    sync.Mutex
	codes []otp.ResetCode
}

func NewFakeOTPRepo() *FakeOTPRepo {
	return &FakeOTPRepo{}
}

func (f *FakeOTPRepo) Create(ctx context.Context, rc *otp.ResetCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.codes = append(f.codes, *rc)
	return nil
}

func (f *FakeOTPRepo) FindValid(ctx context.Context, email, code string) (*otp.ResetCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	for _, rc := range f.codes {
		if rc.Email == email && rc.Code == code && rc.ExpiresAt.After(now) {
			cp := rc
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *FakeOTPRepo) DeleteForEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.codes[:0]
	for _, rc := range f.codes {
		if rc.Email != email {
			kept = append(kept, rc)
		}
	}
	f.codes = kept
	return nil
}

// ForEmail returns every stored code for an email, expired or not.
func (f *FakeOTPRepo) ForEmail(email string) []otp.ResetCode {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []otp.ResetCode
	for _, rc := range f.codes {
		if rc.Email == email {
			out = append(out, rc)
		}
	}
	return out
}

// Inject adds a code directly, bypassing the service, so tests can
// stage expired rows.
func (f *FakeOTPRepo) Inject(rc otp.ResetCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, rc)
}

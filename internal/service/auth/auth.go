// internal/service/auth/auth.go
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"sundarban-service/internal/domain/admin"
	"sundarban-service/internal/domain/otp"
	xerrors "sundarban-service/internal/pkg/errors"
	"sundarban-service/internal/pkg/token"
	"sundarban-service/internal/service/email"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcryptCost is deliberately above the library default.
	bcryptCost = 12

	// otpTTL is how long a reset code stays redeemable.
	otpTTL = 10 * time.Minute
)

// Mailer is the outgoing-mail collaborator. It never fails hard; the
// result says whether the message actually left.
type Mailer interface {
	Send(msg email.Message) email.Result
}

// RateLimiter throttles credential-guessing and reset-code spam.
type RateLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, email string) (bool, error)
	ResetLoginAttempts(ctx context.Context, ip, email string) error
	CheckPasswordResetAttempt(ctx context.Context, email string) (bool, error)
}

// LoginResult is what a successful authentication hands back to the
// handler: a signed session token and where to send the browser.
type LoginResult struct {
	Token        string
	Admin        admin.Info
	Bootstrapped bool
}

// ResetIssued reports the outcome of a reset-code request. EmailSent is
// false when the code was stored but the mailer could not deliver it.
type ResetIssued struct {
	EmailSent bool
}

type AuthService struct {
	adminRepo   admin.Repository
	otpRepo     otp.Repository
	tokens      *token.Manager
	rateLimiter RateLimiter
	emailHelper *EmailHelper
	logger      *zap.Logger
}

func NewAuthService(
	adminRepo admin.Repository,
	otpRepo otp.Repository,
	tokens *token.Manager,
	rateLimiter RateLimiter,
	mailer Mailer,
	ownerEmail string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:   adminRepo,
		otpRepo:     otpRepo,
		tokens:      tokens,
		rateLimiter: rateLimiter,
		emailHelper: NewEmailHelper(mailer, logger, ownerEmail),
		logger:      logger,
	}
}

// ========== Bootstrap / Login ==========

// AdminExists reports whether any admin account exists. The login page
// uses it to decide between "Create Account" and "Login". Always a
// fresh query: a cached flag would go stale the moment a concurrent
// request bootstraps the first account.
func (s *AuthService) AdminExists(ctx context.Context) (bool, error) {
	exists, err := s.adminRepo.AnyExists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check admin existence: %w", err)
	}
	return exists, nil
}

// Authenticate handles the bootstrap-or-login decision. With zero admin
// accounts the submitted credentials register the first admin; with at
// least one, they must match a stored account.
func (s *AuthService) Authenticate(ctx context.Context, req *admin.LoginRequest) (*LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, xerrors.ErrFieldsRequired
	}

	allowed, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IP, req.Email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	exists, err := s.adminRepo.AnyExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin existence: %w", err)
	}

	if !exists {
		return s.bootstrap(ctx, req.Email, req.Password)
	}

	return s.login(ctx, req)
}

// bootstrap registers the first admin account. There is nothing to
// compare credentials against yet; a concurrent duplicate insert loses
// on the email uniqueness constraint and surfaces as a store error.
func (s *AuthService) bootstrap(ctx context.Context, emailAddr, password string) (*LoginResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a := &admin.Admin{
		ID:           ulid.Make().String(),
		Email:        emailAddr,
		PasswordHash: string(hashed),
	}

	if err := s.adminRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create admin account: %w", err)
	}

	s.logger.Info("first admin account created", zap.String("email", emailAddr))

	sessionToken, err := s.tokens.Issue(a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &LoginResult{Token: sessionToken, Admin: a.Info(), Bootstrapped: true}, nil
}

func (s *AuthService) login(ctx context.Context, req *admin.LoginRequest) (*LoginResult, error) {
	a, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if errors.Is(err, xerrors.ErrNotFound) {
		// Same message as a wrong password, so this channel cannot be
		// used to probe which emails exist.
		return nil, xerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	if err := s.adminRepo.UpdateLastLogin(ctx, a.ID); err != nil {
		s.logger.Error("failed to update last login", zap.Error(err))
	}
	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IP, req.Email); err != nil {
		s.logger.Error("failed to reset login attempts", zap.Error(err))
	}

	sessionToken, err := s.tokens.Issue(a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &LoginResult{Token: sessionToken, Admin: a.Info()}, nil
}

// ========== OTP Issuance ==========

// RequestPasswordReset stores a fresh 6-digit reset code for the email
// and mails it. Codes do not dedup: concurrent requests leave multiple
// valid codes outstanding, and any of them redeems.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailAddr string) (*ResetIssued, error) {
	if !strings.Contains(emailAddr, "@") {
		return nil, xerrors.ErrInvalidEmail
	}

	allowed, err := s.rateLimiter.CheckPasswordResetAttempt(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	// Single-tenant panel: telling the operator their email is wrong is
	// worth more than hiding account existence here.
	_, err = s.adminRepo.FindByEmail(ctx, emailAddr)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrNoAdminAccount
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	code, err := generateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset code: %w", err)
	}

	rc := &otp.ResetCode{
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}

	if err := s.otpRepo.Create(ctx, rc); err != nil {
		return nil, fmt.Errorf("failed to store reset code: %w", err)
	}

	result := s.emailHelper.SendResetCode(emailAddr, code, otpTTL)
	if !result.Success {
		s.logger.Warn("reset code stored but email delivery failed", zap.String("email", emailAddr))
		return &ResetIssued{EmailSent: false}, nil
	}

	return &ResetIssued{EmailSent: true}, nil
}

// ========== OTP Verification & Reset ==========

// ResetPassword redeems a reset code and installs a new password. On
// success every outstanding code for the email is burned.
func (s *AuthService) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	if emailAddr == "" || code == "" || newPassword == "" {
		return xerrors.ErrFieldsRequired
	}

	_, err := s.otpRepo.FindValid(ctx, emailAddr, code)
	if errors.Is(err, xerrors.ErrNotFound) {
		// Wrong code, expired code and no-request-ever all collapse into
		// one answer.
		return xerrors.ErrCodeInvalid
	}
	if err != nil {
		return fmt.Errorf("failed to look up reset code: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.adminRepo.UpdatePasswordByEmail(ctx, emailAddr, string(hashed)); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return xerrors.ErrCodeInvalid
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.otpRepo.DeleteForEmail(ctx, emailAddr); err != nil {
		return fmt.Errorf("failed to burn reset codes: %w", err)
	}

	s.logger.Info("admin password reset", zap.String("email", emailAddr))
	return nil
}

// ========== Helper Functions ==========

// generateOTP draws a uniform 6-digit code from a CSPRNG.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

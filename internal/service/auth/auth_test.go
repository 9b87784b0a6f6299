package auth_test

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"sundarban-service/internal/domain/admin"
	"sundarban-service/internal/domain/otp"
	adminfake "sundarban-service/internal/domain/admin/repofake"
	otpfake "sundarban-service/internal/domain/otp/repofake"
	xerrors "sundarban-service/internal/pkg/errors"
	"sundarban-service/internal/pkg/token"
	authUsecase "sundarban-service/internal/service/auth"
	"sundarban-service/internal/service/email"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testEmail    = "a@x.com"
	testPassword = "secret123"
	testSecret   = "test-session-secret"
	ownerEmail   = "owner@sundarbanbengaltrip.com"
)

// fakeMailer records outgoing messages and can be flipped to fail.
type fakeMailer struct {
	sent []email.Message
	fail bool
}

func (m *fakeMailer) Send(msg email.Message) email.Result {
	m.sent = append(m.sent, msg)
	if m.fail {
		return email.Result{Success: false}
	}
	return email.Result{Success: true, MessageID: "<test@localhost>"}
}

// openLimiter allows everything; rate limiting behavior is not under
// test here.
type openLimiter struct{}

func (openLimiter) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, error) {
	return true, nil
}
func (openLimiter) ResetLoginAttempts(ctx context.Context, ip, email string) error { return nil }
func (openLimiter) CheckPasswordResetAttempt(ctx context.Context, email string) (bool, error) {
	return true, nil
}

type fixture struct {
	adminRepo *adminfake.FakeAdminRepo
	otpRepo   *otpfake.FakeOTPRepo
	mailer    *fakeMailer
	service   *authUsecase.AuthService
}

func setup(t *testing.T) *fixture {
	t.Helper()

	adminRepo := adminfake.NewFakeAdminRepo()
	otpRepo := otpfake.NewFakeOTPRepo()
	mailer := &fakeMailer{}

	tokens, err := token.NewManager(testSecret, "sundarban-admin")
	require.NoError(t, err)

	service := authUsecase.NewAuthService(
		adminRepo, otpRepo, tokens, openLimiter{}, mailer, ownerEmail, zap.NewNop(),
	)

	return &fixture{adminRepo: adminRepo, otpRepo: otpRepo, mailer: mailer, service: service}
}

func login(email, password string) *admin.LoginRequest {
	return &admin.LoginRequest{Email: email, Password: password, IP: "127.0.0.1"}
}

// ========== Bootstrap / Login ==========

func TestAuthenticateBootstrapsFirstAdmin(t *testing.T) {
	f := setup(t)

	result, err := f.service.Authenticate(context.Background(), login(testEmail, testPassword))
	require.NoError(t, err)
	require.True(t, result.Bootstrapped)
	require.NotEmpty(t, result.Token)
	require.Equal(t, 1, f.adminRepo.Count())

	stored := f.adminRepo.Get(testEmail)
	require.NotNil(t, stored)
	require.NotEmpty(t, stored.ID)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(testPassword)))
	require.Nil(t, stored.LastLogin, "bootstrap must not set last_login")
}

func TestAuthenticateSecondBootstrapAttemptFails(t *testing.T) {
	f := setup(t)

	_, err := f.service.Authenticate(context.Background(), login(testEmail, testPassword))
	require.NoError(t, err)

	// A second submission with different credentials must behave like a
	// failed login, not create another account.
	_, err = f.service.Authenticate(context.Background(), login("b@x.com", "wrong"))
	require.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
	require.Equal(t, 1, f.adminRepo.Count())
}

func TestAuthenticateLoginUpdatesLastLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)

	before := time.Now()
	result, err := f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)
	require.False(t, result.Bootstrapped)

	stored := f.adminRepo.Get(testEmail)
	require.NotNil(t, stored.LastLogin)
	require.False(t, stored.LastLogin.Before(before))

	// Logging in again moves it forward.
	first := *stored.LastLogin
	_, err = f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)
	require.False(t, f.adminRepo.Get(testEmail).LastLogin.Before(first))
}

func TestAuthenticateFailureMessagesAreIdentical(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)

	_, wrongPassword := f.service.Authenticate(ctx, login(testEmail, "nope"))
	_, unknownEmail := f.service.Authenticate(ctx, login("ghost@x.com", testPassword))

	require.ErrorIs(t, wrongPassword, xerrors.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, xerrors.ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticateRequiresBothFields(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, login("", testPassword))
	require.ErrorIs(t, err, xerrors.ErrFieldsRequired)

	_, err = f.service.Authenticate(ctx, login(testEmail, ""))
	require.ErrorIs(t, err, xerrors.ErrFieldsRequired)

	require.Equal(t, 0, f.adminRepo.Count(), "validation must reject before any store access")
}

func TestAuthenticateSurfacesStoreErrorsGenerically(t *testing.T) {
	f := setup(t)
	f.adminRepo.CreateErr = xerrors.ErrInternal

	_, err := f.service.Authenticate(context.Background(), login(testEmail, testPassword))
	require.Error(t, err)
	require.NotErrorIs(t, err, xerrors.ErrInvalidCredentials)
}

// ========== OTP Issuance ==========

func TestRequestPasswordResetStoresAndMailsCode(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)

	issued, err := f.service.RequestPasswordReset(ctx, testEmail)
	require.NoError(t, err)
	require.True(t, issued.EmailSent)

	codes := f.otpRepo.ForEmail(testEmail)
	require.Len(t, codes, 1)

	code := codes[0].Code
	require.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
	n, err := strconv.Atoi(code)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 100000)
	require.LessOrEqual(t, n, 999999)

	expires := time.Until(codes[0].ExpiresAt)
	require.Greater(t, expires, 9*time.Minute)
	require.LessOrEqual(t, expires, 10*time.Minute)

	require.Len(t, f.mailer.sent, 1)
	require.Equal(t, testEmail, f.mailer.sent[0].To)
	require.Contains(t, f.mailer.sent[0].HTML, code)
	require.Equal(t, ownerEmail, f.mailer.sent[0].ReplyTo)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	f := setup(t)

	_, err := f.service.RequestPasswordReset(context.Background(), "ghost@x.com")
	require.ErrorIs(t, err, xerrors.ErrNoAdminAccount)
	require.Empty(t, f.mailer.sent)
}

func TestRequestPasswordResetRejectsMalformedEmail(t *testing.T) {
	f := setup(t)

	_, err := f.service.RequestPasswordReset(context.Background(), "not-an-email")
	require.ErrorIs(t, err, xerrors.ErrInvalidEmail)
}

func TestRequestPasswordResetMailerFailureStillStoresCode(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)

	f.mailer.fail = true
	issued, err := f.service.RequestPasswordReset(ctx, testEmail)
	require.NoError(t, err, "a mailer failure is not a failure of the whole call")
	require.False(t, issued.EmailSent)

	codes := f.otpRepo.ForEmail(testEmail)
	require.Len(t, codes, 1)

	// The stored code is still redeemable.
	require.NoError(t, f.service.ResetPassword(ctx, testEmail, codes[0].Code, "newpass456"))
}

func TestRequestPasswordResetAllowsMultipleOutstandingCodes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)

	_, err = f.service.RequestPasswordReset(ctx, testEmail)
	require.NoError(t, err)
	_, err = f.service.RequestPasswordReset(ctx, testEmail)
	require.NoError(t, err)

	require.Len(t, f.otpRepo.ForEmail(testEmail), 2, "no dedup of outstanding codes")
}

// ========== OTP Verification & Reset ==========

func TestResetPasswordRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)

	_, err = f.service.RequestPasswordReset(ctx, testEmail)
	require.NoError(t, err)
	code := f.otpRepo.ForEmail(testEmail)[0].Code

	require.NoError(t, f.service.ResetPassword(ctx, testEmail, code, "newpass456"))

	// Old password no longer authenticates, new one does.
	_, err = f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.ErrorIs(t, err, xerrors.ErrInvalidCredentials)

	_, err = f.service.Authenticate(ctx, login(testEmail, "newpass456"))
	require.NoError(t, err)

	// The consumed code cannot be replayed.
	err = f.service.ResetPassword(ctx, testEmail, code, "another789")
	require.ErrorIs(t, err, xerrors.ErrCodeInvalid)
}

func TestResetPasswordBurnsAllOutstandingCodes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)

	_, err = f.service.RequestPasswordReset(ctx, testEmail)
	require.NoError(t, err)
	_, err = f.service.RequestPasswordReset(ctx, testEmail)
	require.NoError(t, err)

	codes := f.otpRepo.ForEmail(testEmail)
	require.Len(t, codes, 2)

	// Redeeming the second burns the first too.
	require.NoError(t, f.service.ResetPassword(ctx, testEmail, codes[1].Code, "newpass456"))

	err = f.service.ResetPassword(ctx, testEmail, codes[0].Code, "another789")
	require.ErrorIs(t, err, xerrors.ErrCodeInvalid)
	require.Empty(t, f.otpRepo.ForEmail(testEmail))
}

func TestResetPasswordExpiredCode(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)

	f.otpRepo.Inject(otp.ResetCode{
		Email:     testEmail,
		Code:      "123456",
		ExpiresAt: time.Now().Add(-1 * time.Second),
	})

	err = f.service.ResetPassword(ctx, testEmail, "123456", "newpass456")
	require.ErrorIs(t, err, xerrors.ErrCodeInvalid)
}

func TestResetPasswordWrongCodeSameMessageAsExpired(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)

	f.otpRepo.Inject(otp.ResetCode{
		Email:     testEmail,
		Code:      "123456",
		ExpiresAt: time.Now().Add(-1 * time.Second),
	})

	expired := f.service.ResetPassword(ctx, testEmail, "123456", "x12345678")
	wrong := f.service.ResetPassword(ctx, testEmail, "654321", "x12345678")
	never := f.service.ResetPassword(ctx, "ghost@x.com", "111111", "x12345678")

	require.Equal(t, expired.Error(), wrong.Error())
	require.Equal(t, wrong.Error(), never.Error())
}

func TestResetPasswordRequiresAllFields(t *testing.T) {
	f := setup(t)

	for _, tc := range []struct{ email, code, password string }{
		{"", "123456", "newpass"},
		{testEmail, "", "newpass"},
		{testEmail, "123456", ""},
	} {
		err := f.service.ResetPassword(context.Background(), tc.email, tc.code, tc.password)
		require.ErrorIs(t, err, xerrors.ErrFieldsRequired)
	}
}

// ========== AdminExists ==========

func TestAdminExistsFlipsAfterBootstrap(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	exists, err := f.service.AdminExists(ctx)
	require.NoError(t, err)
	require.False(t, exists)

	_, err = f.service.Authenticate(ctx, login(testEmail, testPassword))
	require.NoError(t, err)

	exists, err = f.service.AdminExists(ctx)
	require.NoError(t, err)
	require.True(t, exists)
}

// Guard against accidentally weakening the hash parameters.
func TestBootstrapHashCost(t *testing.T) {
	f := setup(t)

	_, err := f.service.Authenticate(context.Background(), login(testEmail, testPassword))
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(f.adminRepo.Get(testEmail).PasswordHash))
	require.NoError(t, err)
	require.GreaterOrEqual(t, cost, 12)
	require.True(t, strings.HasPrefix(f.adminRepo.Get(testEmail).PasswordHash, "$2"))
}

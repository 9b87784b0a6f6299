// internal/service/auth/email.go
package auth

import (
	"fmt"
	"time"

	"sundarban-service/internal/service/email"

	"go.uber.org/zap"
)

// EmailHelper builds and sends the auth flow's outgoing mail.
type EmailHelper struct {
	mailer     Mailer
	logger     *zap.Logger
	ownerEmail string
}

func NewEmailHelper(mailer Mailer, logger *zap.Logger, ownerEmail string) *EmailHelper {
	return &EmailHelper{
		mailer:     mailer,
		logger:     logger,
		ownerEmail: ownerEmail,
	}
}

// SendResetCode mails a password-reset code. Replies go to the site
// owner so a confused operator reaches a human.
func (h *EmailHelper) SendResetCode(to, code string, ttl time.Duration) email.Result {
	body := fmt.Sprintf(`
		<p>Hello,</p>
		<p>A password reset was requested for your Sundarban Bengal Trip admin account.</p>
		<p>Your one-time code is:</p>
		<p class="code">%s</p>
		<p>The code expires in %d minutes. If you did not request this, you can ignore this email.</p>
	`, code, int(ttl.Minutes()))

	return h.mailer.Send(email.Message{
		To:      to,
		Subject: "Your admin password reset code",
		HTML:    body,
		ReplyTo: h.ownerEmail,
	})
}

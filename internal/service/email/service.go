// internal/service/email/service.go
package email

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// dialTimeout caps how long a slow mail server can hold up the request
// that triggered the send.
const dialTimeout = 10 * time.Second

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
	ReplyTo string
	Name    string
}

// Result is what a send resolves to. The sender never returns an error:
// failures are logged and reported through Success=false so callers can
// decide how much of their own operation still counts as done.
type Result struct {
	Success   bool
	MessageID string
}

// Sender delivers templated HTML email over SMTP.
type Sender struct {
	smtpHost string
	smtpPort string
	username string
	password string
	fromName string
	secure   bool
	logger   *zap.Logger
}

// NewSender creates a new SMTP email sender.
func NewSender(host, port, user, pass, fromName string, secure bool, logger *zap.Logger) *Sender {
	return &Sender{
		smtpHost: host,
		smtpPort: port,
		username: user,
		password: pass,
		fromName: fromName,
		secure:   secure,
		logger:   logger,
	}
}

// Send delivers the message and resolves to a Result.
func (e *Sender) Send(msg Message) Result {
	messageID := fmt.Sprintf("<%s@%s>", ulid.Make().String(), e.smtpHost)

	if err := e.deliver(msg, messageID); err != nil {
		e.logger.Error("email delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return Result{Success: false}
	}

	return Result{Success: true, MessageID: messageID}
}

func (e *Sender) deliver(msg Message, messageID string) error {
	from := fmt.Sprintf("%s <%s>", e.fromName, e.username)
	to := msg.To
	if msg.Name != "" {
		to = fmt.Sprintf("%s <%s>", msg.Name, msg.To)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Message-ID: %s\r\n", messageID)
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(buildHTMLTemplate(msg.HTML))
	payload := []byte(b.String())

	serverAddr := e.smtpHost + ":" + e.smtpPort

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         e.smtpHost,
	}

	auth := smtp.PlainAuth("", e.username, e.password, e.smtpHost)

	if e.secure {
		// Port 465 - implicit TLS
		dialer := &net.Dialer{Timeout: dialTimeout}
		conn, err := tls.DialWithDialer(dialer, "tcp", serverAddr, tlsConfig)
		if err != nil {
			return fmt.Errorf("tls dial failed: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, e.smtpHost)
		if err != nil {
			return fmt.Errorf("smtp client failed: %w", err)
		}
		defer client.Quit()

		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth failed: %w", err)
		}

		return e.sendMail(client, msg.To, payload)
	}

	// Port 587 - STARTTLS
	conn, err := net.DialTimeout("tcp", serverAddr, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	client, err := smtp.NewClient(conn, e.smtpHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client failed: %w", err)
	}
	defer client.Quit()

	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("starttls failed: %w", err)
	}
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth failed: %w", err)
	}

	return e.sendMail(client, msg.To, payload)
}

func (e *Sender) sendMail(client *smtp.Client, to string, payload []byte) error {
	if err := client.Mail(e.username); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close failed: %w", err)
	}
	return nil
}

// buildHTMLTemplate wraps a given body into the site's email layout.
func buildHTMLTemplate(content string) string {
	header := `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8" />
		<title>Sundarban Bengal Trip</title>
		<style>
			body { font-family: Arial, sans-serif; background-color: #f6f8fa; padding: 30px; }
			.container { max-width: 600px; margin: auto; background: #fff; border-radius: 10px; overflow: hidden; box-shadow: 0 2px 5px rgba(0,0,0,0.1); }
			.header { background: #14532d; color: white; text-align: center; padding: 20px; font-size: 22px; font-weight: bold; }
			.footer { background: #f1f1f1; color: #555; text-align: center; padding: 15px; font-size: 13px; }
			.body { padding: 25px; color: #333; line-height: 1.6; }
			.code { display: inline-block; background: #f1f5f9; padding: 10px 20px; border-radius: 5px; font-size: 24px; letter-spacing: 6px; font-weight: bold; }
		</style>
	</head>
	<body>
	<div class="container">
		<div class="header">Sundarban Bengal Trip</div>
		<div class="body">
	`

	footer := `
		</div>
		<div class="footer">
			<p>© 2026 Sundarban Bengal Trip. All rights reserved.</p>
		</div>
	</div>
	</body>
	</html>
	`

	return header + strings.TrimSpace(content) + footer
}

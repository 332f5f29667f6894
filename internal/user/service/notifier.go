// Package service provides delivery of sign-up verification codes.
package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	mail "github.com/go-mail/mail"

	"github.com/allisson/useradmin/internal/user/domain"
)

const verificationSubject = "Confirm your email address"

// mailSender is satisfied by *mail.Dialer.
type mailSender interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPNotifier mails verification codes through an SMTP relay.
type SMTPNotifier struct {
	from   string
	sender mailSender
	logger *slog.Logger
}

// NewSMTPNotifier creates an SMTPNotifier. STARTTLS is negotiated when the server offers it.
func NewSMTPNotifier(host string, port int, username, password, from string, logger *slog.Logger) *SMTPNotifier {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	return &SMTPNotifier{from: from, sender: dialer, logger: logger}
}

// NotifyVerification sends the code to the user's address.
func (n *SMTPNotifier) NotifyVerification(ctx context.Context, user *domain.User, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := n.sender.DialAndSend(n.verificationMessage(user, code)); err != nil {
		n.logger.ErrorContext(ctx, "failed to send verification email",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err),
		)
		return fmt.Errorf("smtp send: %w", err)
	}

	n.logger.InfoContext(ctx, "verification email sent", slog.Int64("user_id", user.ID))
	return nil
}

func (n *SMTPNotifier) verificationMessage(user *domain.User, code string) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", verificationSubject)
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour verification code is: %s\n\nSubmit it together with your email address to finish signing up.\n",
		user.FirstName, code,
	))
	m.AddAlternative("text/html", fmt.Sprintf(
		"<p>Hello %s,</p><p>Your verification code is: <strong>%s</strong></p>",
		user.FirstName, code,
	))
	return m
}

// LogNotifier writes verification codes to the log. Meant for development without a relay.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyVerification logs the code.
func (n *LogNotifier) NotifyVerification(ctx context.Context, user *domain.User, code string) error {
	n.logger.WarnContext(ctx, "verification code issued without mail delivery",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("verification_code", code),
	)
	return nil
}

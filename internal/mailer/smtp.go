package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer sends email through a plain SMTP relay using net/smtp.
// Deliberately stdlib-only; the relay handles queueing and retries.
type SMTPMailer struct {
	addr string // host:port
	auth smtp.Auth
}

// NewSMTPMailer creates an SMTP-backed mailer. Username may be empty for
// relays that accept unauthenticated submission.
func NewSMTPMailer(addr, username, password string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPMailer{
		addr: addr,
		auth: auth,
	}
}

// Send delivers one email via the configured relay
func (m *SMTPMailer) Send(ctx context.Context, from, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(from, to, subject, body)

	if err := smtp.SendMail(m.addr, m.auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	return nil
}

// buildMessage assembles a minimal RFC 5322 plain-text message
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

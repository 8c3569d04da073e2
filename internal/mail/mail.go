// Package mail sends plain-text email over SMTP.
package mail

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// SMTP sends mail through a single SMTP account.
type SMTP struct {
	host     string
	port     string
	username string
	password string
	from     string
	log      zerolog.Logger
}

// NewSMTP creates an SMTP mailer. The from address doubles as the auth
// identity when username is empty.
func NewSMTP(host, port, username, password, from string, log zerolog.Logger) *SMTP {
	if username == "" {
		username = from
	}
	return &SMTP{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		log:      log.With().Str("component", "mail").Logger(),
	}
}

// Send dispatches one message to the given recipients.
func (m *SMTP) Send(subject, body string, recipients []string) error {
	addr := net.JoinHostPort(m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	msg := buildMessage(m.from, recipients, subject, body)

	if err := smtp.SendMail(addr, auth, m.from, recipients, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}
	m.log.Debug().Strs("to", recipients).Str("subject", subject).Msg("mail sent")
	return nil
}

func buildMessage(from string, recipients []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

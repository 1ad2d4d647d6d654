// Package mailer sends the post-registration notification. When no SMTP
// relay is configured it degrades to logging the would-be message, which is
// what development and tests want.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"unicode"
)

type Mailer struct {
	addr   string
	from   string
	logger *slog.Logger
}

// New builds a Mailer. addr is the SMTP relay (host:port); empty disables
// delivery.
func New(addr, from string, logger *slog.Logger) *Mailer {
	return &Mailer{addr: addr, from: from, logger: logger}
}

// SendCardReady notifies a tourist that their registration went through.
func (m *Mailer) SendCardReady(ctx context.Context, to, name string) error {
	greeting := name
	if strings.TrimSpace(greeting) == "" {
		first, _ := DeriveNameFromEmail(to)
		greeting = first
	}

	body := fmt.Sprintf("Hello %s,\r\n\r\nYour registration is confirmed. Your visitor card is ready.\r\n", greeting)

	if m.addr == "" {
		m.logger.InfoContext(ctx, "mail delivery disabled, skipping",
			"to", to,
		)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your visitor card is ready\r\n\r\n%s",
		m.from, to, body)
	return smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg))
}

// DeriveNameFromEmail guesses first and last name from an address local part.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "Visitor", "Visitor"
	}

	first := capitalize(parts[0])
	last := "Visitor"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

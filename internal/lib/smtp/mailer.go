package smtp

import (
	"context"
	"fmt"
	"mime"
	"net/mail"
	"strings"
)

// Mailer отправляет письма через транспорт.
type Mailer struct {
	transport TransportInterface
}

// NewMailer создаёт Mailer.
func NewMailer(transport TransportInterface) *Mailer {
	return &Mailer{transport: transport}
}

// Send отправляет HTML-письмо одному получателю.
func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	const op = "smtp.Send"

	from := m.transport.From()
	envelopeFrom := from
	if addr, err := mail.ParseAddress(from); err == nil {
		envelopeFrom = addr.Address
	}
	msg := BuildMessage(from, to, subject, html)

	client, err := m.transport.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(envelopeFrom); err != nil {
		return fmt.Errorf("%s: failed to set mail sender: %w", op, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("%s: failed to set recipient %s: %w", op, to, err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: failed to get write closer: %w", op, err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("%s: failed to write message: %w", op, err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("%s: failed to close write closer: %w", op, err)
	}

	if err = client.Quit(); err != nil {
		return fmt.Errorf("%s: failed to quit SMTP client: %w", op, err)
	}
	return nil
}

// BuildMessage собирает письмо с HTML-телом в кодировке UTF-8.
func BuildMessage(from, to, subject, html string) string {
	return strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		html,
	}, "\r\n")
}

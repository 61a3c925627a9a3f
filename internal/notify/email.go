package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// Mailer отправка HTML-письма.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Email шлюз email-уведомлений.
type Email struct {
	mailer Mailer
}

// NewEmail создаёт email-шлюз.
func NewEmail(mailer Mailer) *Email {
	return &Email{mailer: mailer}
}

// Channel возвращает ChannelEmail.
func (e *Email) Channel() Channel {
	return ChannelEmail
}

// Send отправляет письмо. Без msg.HTML тело собирается из экранированного msg.Text.
func (e *Email) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	body := msg.HTML
	if body == "" {
		body = TextToHTML(msg.Text)
	}
	if err := e.mailer.Send(ctx, msg.To, msg.Subject, body); err != nil {
		return fmt.Errorf("notify.Email: %w", err)
	}
	return nil
}

// TextToHTML экранирует текст и разбивает его на абзацы по пустым строкам.
func TextToHTML(text string) string {
	var b strings.Builder
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(p), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

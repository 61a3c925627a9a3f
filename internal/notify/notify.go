// Package notify доставляет текстовые уведомления по SMS и email.
package notify

import (
	"context"
	"errors"
)

// Channel канал доставки.
type Channel string

// Поддерживаемые каналы.
const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// ErrNoRecipient у сообщения не указан получатель.
var ErrNoRecipient = errors.New("notify: empty recipient")

// Message одно уведомление. Для SMS используется только Text.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Gateway отправляет сообщения через один канал.
type Gateway interface {
	Channel() Channel
	Send(ctx context.Context, msg Message) error
}

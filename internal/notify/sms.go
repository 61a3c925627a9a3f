package notify

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/rentflow/internal/lib/twilio"
)

// SMSClient отправка SMS провайдером.
type SMSClient interface {
	SendSMS(ctx context.Context, to, body string) (*twilio.MessageResponse, error)
}

// SMS шлюз SMS-уведомлений.
type SMS struct {
	client SMSClient
}

// NewSMS создаёт SMS-шлюз.
func NewSMS(client SMSClient) *SMS {
	return &SMS{client: client}
}

// Channel возвращает ChannelSMS.
func (s *SMS) Channel() Channel {
	return ChannelSMS
}

// Send отправляет msg.Text на номер msg.To.
func (s *SMS) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if _, err := s.client.SendSMS(ctx, msg.To, msg.Text); err != nil {
		return fmt.Errorf("notify.SMS: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/rentflow/internal/lib/sl"
	"github.com/magabrotheeeer/rentflow/internal/models"
	"github.com/magabrotheeeer/rentflow/internal/notify"
)

// Статусы доставки по каналу.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = ""
)

// ErrDeliveryFailed ни один из выбранных каналов не доставил напоминание.
var ErrDeliveryFailed = errors.New("reminder delivery failed")

// Repository источник напоминаний.
type Repository interface {
	GetReminder(ctx context.Context, id string) (*models.Reminder, error)
}

// Result результат доставки по каналам.
type Result struct {
	Email string `json:"email,omitempty"`
	SMS   string `json:"sms,omitempty"`
}

// SenderService доставляет пользовательские напоминания.
type SenderService struct {
	repo    Repository
	email   notify.Gateway
	sms     notify.Gateway
	brand   string
	timeout time.Duration
	log     *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService. email и sms могут
// быть nil, если канал не настроен.
func NewSenderService(repo Repository, email, sms notify.Gateway, brand string, timeout time.Duration, log *slog.Logger) *SenderService {
	return &SenderService{
		repo:    repo,
		email:   email,
		sms:     sms,
		brand:   brand,
		timeout: timeout,
		log:     log,
	}
}

// SendDueReminder обработчик сообщения из очереди reminder.due.
func (s *SenderService) SendDueReminder(ctx context.Context, body []byte) error {
	var message models.DueReminderMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if message.ReminderID == "" {
		return errors.New("error unmarshalling message: empty reminder_id")
	}
	_, err := s.Send(ctx, message.ReminderID)
	return err
}

// Send доставляет напоминание id по включённым в нём каналам.
func (s *SenderService) Send(ctx context.Context, id string) (Result, error) {
	const op = "services.sender.Send"

	reminder, err := s.repo.GetReminder(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("%s: reminder not found: %w", op, err)
	}
	log := s.log.With(slog.String("reminder_id", id))

	var res Result
	if reminder.SendEmail && reminder.User.Email != "" && s.email != nil {
		res.Email = s.deliver(ctx, log, s.email, notify.Message{
			To:      reminder.User.Email,
			Subject: "Reminder: " + reminder.Title,
			HTML:    s.emailBody(reminder),
		})
	}
	if reminder.SendSMS && reminder.User.Phone != "" && s.sms != nil {
		res.SMS = s.deliver(ctx, log, s.sms, notify.Message{
			To:   reminder.User.Phone,
			Text: s.smsBody(reminder),
		})
	}

	if res.Email != StatusSent && res.SMS != StatusSent && (res.Email == StatusFailed || res.SMS == StatusFailed) {
		return res, fmt.Errorf("%s: %w", op, ErrDeliveryFailed)
	}
	log.Info("reminder processed", slog.String("email", res.Email), slog.String("sms", res.SMS))
	return res, nil
}

func (s *SenderService) deliver(ctx context.Context, log *slog.Logger, gw notify.Gateway, msg notify.Message) string {
	sendCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := gw.Send(sendCtx, msg); err != nil {
		log.Error("failed to send reminder", slog.String("channel", string(gw.Channel())), sl.Err(err))
		return StatusFailed
	}
	return StatusSent
}

func (s *SenderService) emailBody(r *models.Reminder) string {
	var b strings.Builder
	b.WriteString("<h2>Rental Reminder</h2>")
	b.WriteString("<p><strong>" + html.EscapeString(r.Title) + "</strong></p>")
	if r.Description != "" {
		b.WriteString("<p>" + html.EscapeString(r.Description) + "</p>")
	}
	b.WriteString("<p>Due: " + r.DueDate.Format(time.DateOnly) + "</p>")
	b.WriteString("<p>- " + html.EscapeString(s.brand) + "</p>")
	return b.String()
}

func (s *SenderService) smsBody(r *models.Reminder) string {
	text := s.brand + " Reminder: " + r.Title
	if r.Description != "" {
		text += " - " + r.Description
	}
	return text + " (Due: " + r.DueDate.Format(time.DateOnly) + ")"
}

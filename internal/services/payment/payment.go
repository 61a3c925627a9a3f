package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/rentflow/internal/models"
)

// RentReminderRepository хранилище напоминаний об аренде.
type RentReminderRepository interface {
	MarkRentReminderPaid(ctx context.Context, id string, paidAt time.Time) (*models.RentReminder, error)
}

// PaymentService фиксирует оплату аренды.
type PaymentService struct {
	repo RentReminderRepository
	now  func() time.Time
	log  *slog.Logger
}

// New создаёт PaymentService.
func New(repo RentReminderRepository, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo: repo,
		now:  time.Now,
		log:  log,
	}
}

// MarkPaid переводит напоминание id в статус paid. Без paidAt используется
// текущее время. Повторная отметка не меняет уже сохранённый paid_at.
func (s *PaymentService) MarkPaid(ctx context.Context, id string, paidAt *time.Time) (*models.RentReminder, error) {
	at := s.now().UTC()
	if paidAt != nil {
		at = paidAt.UTC()
	}
	r, err := s.repo.MarkRentReminderPaid(ctx, id, at)
	if err != nil {
		return nil, fmt.Errorf("failed to mark rent reminder paid: %w", err)
	}
	s.log.Info("rent reminder paid",
		slog.String("reminder_id", r.ID),
		slog.String("lease_id", r.LeaseID),
		slog.String("month", r.Month.Format(time.DateOnly)),
	)
	return r, nil
}

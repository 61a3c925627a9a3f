package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/rentflow/internal/lib/month"
	"github.com/magabrotheeeer/rentflow/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/rentflow/internal/lib/sl"
	"github.com/magabrotheeeer/rentflow/internal/models"
)

// ReminderRepository источник наступивших напоминаний.
type ReminderRepository interface {
	ListDueReminders(ctx context.Context, day time.Time) ([]string, error)
}

// Publisher публикует сообщения в брокер.
type Publisher interface {
	Publish(ctx context.Context, key string, message any) error
}

// RentJob один проход по напоминаниям об аренде.
type RentJob interface {
	Run(ctx context.Context) models.RunSummary
}

// SchedulerService периодически запускает фоновые задачи.
type SchedulerService struct {
	repo      ReminderRepository
	publisher Publisher
	location  *time.Location
	now       func() time.Time
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo ReminderRepository, publisher Publisher, location *time.Location, log *slog.Logger) *SchedulerService {
	if location == nil {
		location = time.UTC
	}
	return &SchedulerService{
		repo:      repo,
		publisher: publisher,
		location:  location,
		now:       time.Now,
		log:       log,
	}
}

// RunRentReminders запускает job сразу и затем каждые interval до отмены ctx.
func (s *SchedulerService) RunRentReminders(ctx context.Context, job RentJob, interval time.Duration) {
	every(ctx, interval, func() {
		s.runRentReminders(ctx, job)
	})
}

func (s *SchedulerService) runRentReminders(ctx context.Context, job RentJob) {
	s.log.Info("starting rent reminders run")
	summary := job.Run(ctx)
	s.log.Info("rent reminders run finished",
		slog.Int("reminders_created", summary.RemindersCreated),
		slog.Int("tenant_notifications", summary.TenantNotifications),
		slog.Int("admin_notifications", summary.AdminNotifications),
		slog.Int("marked_late", summary.MarkedLate),
		slog.Int("errors", len(summary.Errors)),
	)
	for _, e := range summary.Errors {
		s.log.Warn("rent reminders run error", slog.String("error", e))
	}
}

// PublishDueReminders ищет наступившие напоминания сразу и затем каждые interval.
func (s *SchedulerService) PublishDueReminders(ctx context.Context, interval time.Duration) {
	every(ctx, interval, func() {
		s.runPublishDueReminders(ctx)
	})
}

func (s *SchedulerService) runPublishDueReminders(ctx context.Context) {
	s.log.Info("starting service to find due reminders")
	today := month.Day(s.now(), s.location)
	ids, err := s.repo.ListDueReminders(ctx, today)
	if err != nil {
		s.log.Error("failed to find due reminders", sl.Err(err))
		return
	}
	if len(ids) == 0 {
		s.log.Info("no due reminders found")
		return
	}
	s.log.Info("found due reminders", "count", len(ids))
	for _, id := range ids {
		err = s.publisher.Publish(ctx, rabbitmq.DueReminderRoutingKey, models.DueReminderMessage{ReminderID: id})
		if err != nil {
			s.log.Error("failed to publish message", slog.String("reminder_id", id), sl.Err(err))
		}
	}
}

func every(ctx context.Context, interval time.Duration, fn func()) {
	fn()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// Package rentreminder ведёт ежемесячные напоминания об оплате аренды:
// создаёт их первого числа, отмечает просрочку после льготного периода
// и рассылает уведомления арендаторам и персоналу.
package rentreminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/rentflow/internal/lib/month"
	"github.com/magabrotheeeer/rentflow/internal/lib/sl"
	"github.com/magabrotheeeer/rentflow/internal/models"
	"github.com/magabrotheeeer/rentflow/internal/notify"
	"github.com/magabrotheeeer/rentflow/internal/storage/repository"
)

// Repository хранилище договоров, напоминаний и профилей.
type Repository interface {
	ListActiveLeases(ctx context.Context) ([]*models.Lease, error)
	InsertRentReminderIfAbsent(ctx context.Context, r models.RentReminder) (bool, error)
	ListUnpaidRentReminders(ctx context.Context, month time.Time) ([]*models.RentReminder, error)
	MarkRentReminderLate(ctx context.Context, id string, day time.Time) error
	SetTenantNotified(ctx context.Context, id string, at time.Time) error
	SetAdminNotified(ctx context.Context, id string, at time.Time) error
	ListProfilesByRoles(ctx context.Context, roles ...string) ([]*models.Profile, error)
}

// Options настройки движка.
type Options struct {
	GraceDays     int
	TenantEmail   bool
	Location      *time.Location
	NotifyTimeout time.Duration
	Brand         string
	Currency      string
	// Now источник времени, по умолчанию time.Now.
	Now func() time.Time
}

// Engine выполняет один проход обработки напоминаний.
type Engine struct {
	repo  Repository
	sms   notify.Gateway
	email notify.Gateway
	opts  Options
	texts Texts
	log   *slog.Logger
}

// NewEngine создаёт движок. sms и email могут быть nil, если канал не настроен.
func NewEngine(repo Repository, sms, email notify.Gateway, opts Options, log *slog.Logger) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Engine{
		repo:  repo,
		sms:   sms,
		email: email,
		opts:  opts,
		texts: Texts{Brand: opts.Brand, Currency: opts.Currency, GraceDays: opts.GraceDays},
		log:   log,
	}
}

// Run выполняет проход и возвращает его итог. Ошибки не прерывают проход,
// а собираются в RunSummary.Errors.
func (e *Engine) Run(ctx context.Context) models.RunSummary {
	now := e.opts.Now().In(e.opts.Location)
	monthStart := month.Start(now, e.opts.Location)
	today := month.Day(now, e.opts.Location)
	summary := models.NewRunSummary(now, monthStart)
	overdue := month.IsOverdue(today.Day(), e.opts.GraceDays)

	log := e.log.With(
		slog.String("month", summary.Month),
		slog.Int("day", summary.DayOfMonth),
	)
	log.Info("processing rent reminders")

	if today.Day() == 1 {
		e.materialize(ctx, log, &summary, monthStart)
	}

	unpaid, err := e.repo.ListUnpaidRentReminders(ctx, monthStart)
	if err != nil {
		log.Error("failed to fetch unpaid reminders", sl.Err(err))
		summary.AddError("Error fetching reminders: %s", err)
		return e.finish(log, summary)
	}

	if overdue {
		unpaid = e.classify(ctx, log, &summary, unpaid, today)
	}

	e.notifyTenants(ctx, log, &summary, unpaid, overdue, now)

	if overdue && len(unpaid) > 0 {
		e.notifyStaff(ctx, log, &summary, unpaid, now)
	}

	return e.finish(log, summary)
}

func (e *Engine) finish(log *slog.Logger, summary models.RunSummary) models.RunSummary {
	summary.FinishedAt = e.opts.Now().In(e.opts.Location)
	log.Info("rent reminders processed",
		slog.Int("reminders_created", summary.RemindersCreated),
		slog.Int("marked_late", summary.MarkedLate),
		slog.Int("tenant_notifications", summary.TenantNotifications),
		slog.Int("admin_notifications", summary.AdminNotifications),
		slog.Int("errors", len(summary.Errors)),
		slog.Duration("duration", summary.Duration()),
	)
	return summary
}

// materialize создаёт напоминания за месяц для всех действующих договоров.
func (e *Engine) materialize(ctx context.Context, log *slog.Logger, summary *models.RunSummary, monthStart time.Time) {
	leases, err := e.repo.ListActiveLeases(ctx)
	if err != nil {
		log.Error("failed to fetch active leases", sl.Err(err))
		summary.AddError("Error fetching leases: %s", err)
		return
	}

	for _, lease := range leases {
		created, err := e.repo.InsertRentReminderIfAbsent(ctx, models.NewRentReminder(*lease, monthStart))
		if err != nil {
			log.Error("failed to create reminder", slog.String("lease_id", lease.ID), sl.Err(err))
			summary.AddError("Error creating reminder for lease %s: %s", lease.ID, err)
			continue
		}
		if created {
			summary.RemindersCreated++
		}
	}
	log.Debug("reminders materialized", slog.Int("leases", len(leases)), slog.Int("created", summary.RemindersCreated))
}

// classify отмечает просроченными неоплаченные напоминания и возвращает те,
// что остались неоплаченными.
func (e *Engine) classify(ctx context.Context, log *slog.Logger, summary *models.RunSummary,
	unpaid []*models.RentReminder, today time.Time) []*models.RentReminder {
	result := unpaid[:0]
	for _, r := range unpaid {
		if !r.NeedsLateMark() {
			result = append(result, r)
			continue
		}
		err := e.repo.MarkRentReminderLate(ctx, r.ID, today)
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("reminder paid during run", slog.String("reminder_id", r.ID))
			continue
		}
		if err != nil {
			log.Error("failed to mark reminder late", slog.String("reminder_id", r.ID), sl.Err(err))
			summary.AddError("Error marking reminder %s late: %s", r.ID, err)
			result = append(result, r)
			continue
		}
		r.Status = models.StatusLate
		r.IsLate = true
		if r.LateSince == nil {
			day := today
			r.LateSince = &day
		}
		summary.MarkedLate++
		result = append(result, r)
	}
	return result
}

// notifyTenants отправляет арендаторам напоминание или уведомление о просрочке.
func (e *Engine) notifyTenants(ctx context.Context, log *slog.Logger, summary *models.RunSummary,
	unpaid []*models.RentReminder, overdue bool, now time.Time) {
	for _, r := range unpaid {
		if r.TenantNotifiedAt != nil && month.SameDay(*r.TenantNotifiedAt, now, e.opts.Location) {
			log.Debug("tenant already notified today", slog.String("reminder_id", r.ID))
			continue
		}

		text := e.texts.Tenant(r, overdue)
		sent := false

		if r.Tenant.Phone != "" && e.sms != nil {
			err := e.send(ctx, e.sms, notify.Message{To: r.Tenant.Phone, Text: text})
			if err != nil {
				log.Warn("tenant sms failed", slog.String("reminder_id", r.ID), sl.Err(err))
				summary.AddError("Error sending SMS for reminder %s: %s", r.ID, err)
			} else {
				sent = true
			}
		}

		if e.opts.TenantEmail && r.Tenant.Email != "" && e.email != nil {
			err := e.send(ctx, e.email, notify.Message{
				To:      r.Tenant.Email,
				Subject: e.texts.TenantSubject(overdue),
				Text:    text,
			})
			if err != nil {
				log.Warn("tenant email failed", slog.String("reminder_id", r.ID), sl.Err(err))
				summary.AddError("Error sending email for reminder %s: %s", r.ID, err)
			} else {
				sent = true
			}
		}

		if !sent {
			continue
		}
		summary.TenantNotifications++
		// Отправленное уведомление фиксируется и при отмене прохода.
		if err := e.repo.SetTenantNotified(context.WithoutCancel(ctx), r.ID, now); err != nil {
			log.Error("failed to stamp tenant notification", slog.String("reminder_id", r.ID), sl.Err(err))
			summary.AddError("Error updating reminder %s: %s", r.ID, err)
		}
	}
}

// notifyStaff отправляет администраторам и менеджерам сводку по неоплаченным
// напоминаниям.
func (e *Engine) notifyStaff(ctx context.Context, log *slog.Logger, summary *models.RunSummary,
	unpaid []*models.RentReminder, now time.Time) {
	if e.sms == nil {
		return
	}
	staff, err := e.repo.ListProfilesByRoles(ctx, models.RoleAdmin, models.RoleManager)
	if err != nil {
		log.Error("failed to fetch staff profiles", sl.Err(err))
		summary.AddError("Error fetching admins: %s", err)
		return
	}

	total := decimal.Zero
	for _, r := range unpaid {
		total = total.Add(r.TotalAmount)
	}
	text := e.texts.Staff(len(unpaid), total)

	delivered := 0
	for _, p := range staff {
		if p.Phone == "" {
			continue
		}
		if err := e.send(ctx, e.sms, notify.Message{To: p.Phone, Text: text}); err != nil {
			log.Warn("staff sms failed", slog.String("profile_id", p.ID), sl.Err(err))
			summary.AddError("Error sending SMS to %s %s: %s", p.Role, p.ID, err)
			continue
		}
		delivered++
	}
	summary.AdminNotifications += delivered

	if delivered == 0 {
		return
	}
	stampCtx := context.WithoutCancel(ctx)
	for _, r := range unpaid {
		if err := e.repo.SetAdminNotified(stampCtx, r.ID, now); err != nil {
			log.Error("failed to stamp admin notification", slog.String("reminder_id", r.ID), sl.Err(err))
			summary.AddError("Error updating reminder %s: %s", r.ID, err)
		}
	}
}

func (e *Engine) send(ctx context.Context, gw notify.Gateway, msg notify.Message) error {
	if e.opts.NotifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.NotifyTimeout)
		defer cancel()
	}
	return gw.Send(ctx, msg)
}

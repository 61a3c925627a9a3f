package rentreminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/rentflow/internal/cache"
	"github.com/magabrotheeeer/rentflow/internal/lib/month"
	"github.com/magabrotheeeer/rentflow/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/rentflow/internal/lib/sl"
	"github.com/magabrotheeeer/rentflow/internal/models"
)

// Ключи Redis.
const (
	LockKey    = "rent-reminders:run"
	LastRunKey = "rent-reminders:last-run"
)

// Runner выполняет один проход.
type Runner interface {
	Run(ctx context.Context) models.RunSummary
}

// Locker эксклюзивная блокировка запуска.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

// SummaryStore хранилище итога последнего запуска.
type SummaryStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Get(ctx context.Context, key string, result any) (bool, error)
}

// Publisher публикует событие о завершённом запуске.
type Publisher interface {
	Publish(ctx context.Context, key string, message any) error
}

// Recorder учитывает итог запуска в метриках.
type Recorder interface {
	Observe(summary models.RunSummary)
}

// JobConfig зависимости Job. Любая из инфраструктурных зависимостей может
// отсутствовать, тогда соответствующий шаг пропускается.
type JobConfig struct {
	Locker     Locker
	Store      SummaryStore
	Publisher  Publisher
	Recorder   Recorder
	LockTTL    time.Duration
	LastRunTTL time.Duration

	// Location и Now задают день пропущенного прохода, как у движка.
	Location *time.Location
	Now      func() time.Time
}

// Job запускает движок под блокировкой и публикует итог.
type Job struct {
	engine Runner
	cfg    JobConfig
	log    *slog.Logger
}

// NewJob создаёт Job.
func NewJob(engine Runner, cfg JobConfig, log *slog.Logger) *Job {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Job{engine: engine, cfg: cfg, log: log}
}

// Run выполняет проход, если не идёт другой. Ошибки инфраструктуры
// логируются и не меняют итог.
func (j *Job) Run(ctx context.Context) models.RunSummary {
	if j.cfg.Locker != nil {
		unlock, err := j.cfg.Locker.TryLock(ctx, LockKey, j.cfg.LockTTL)
		switch {
		case errors.Is(err, cache.ErrLocked):
			j.log.Warn("rent reminders run skipped, another run is in progress")
			return j.skipped("Run skipped: another run is in progress")
		case err != nil:
			j.log.Warn("run lock unavailable, running unguarded", sl.Err(err))
		default:
			defer func() {
				if err := unlock(context.WithoutCancel(ctx)); err != nil {
					j.log.Error("failed to release run lock", sl.Err(err))
				}
			}()
		}
	}

	summary := j.engine.Run(ctx)

	if j.cfg.Recorder != nil {
		j.cfg.Recorder.Observe(summary)
	}
	if j.cfg.Store != nil {
		if err := j.cfg.Store.Set(ctx, LastRunKey, summary, j.cfg.LastRunTTL); err != nil {
			j.log.Error("failed to cache run summary", sl.Err(err))
		}
	}
	if j.cfg.Publisher != nil {
		if err := j.cfg.Publisher.Publish(ctx, rabbitmq.RentRunRoutingKey, summary); err != nil {
			j.log.Error("failed to publish run summary", sl.Err(err))
		}
	}
	return summary
}

func (j *Job) skipped(reason string) models.RunSummary {
	now := j.cfg.Now().In(j.cfg.Location)
	summary := models.NewRunSummary(now, month.Start(now, j.cfg.Location))
	summary.AddError("%s", reason)
	summary.FinishedAt = now
	return summary
}

// LastRun возвращает итог последнего запуска из кэша.
func (j *Job) LastRun(ctx context.Context) (*models.RunSummary, bool, error) {
	if j.cfg.Store == nil {
		return nil, false, nil
	}
	var summary models.RunSummary
	found, err := j.cfg.Store.Get(ctx, LastRunKey, &summary)
	if err != nil || !found {
		return nil, false, err
	}
	return &summary, true, nil
}

// Package scheduler содержит приложение планировщика: ежедневный проход по
// напоминаниям об аренде и публикацию наступивших пользовательских напоминаний.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/rentflow/internal/app/rentjob"
	"github.com/magabrotheeeer/rentflow/internal/cache"
	"github.com/magabrotheeeer/rentflow/internal/config"
	"github.com/magabrotheeeer/rentflow/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/rentflow/internal/lib/sl"
	"github.com/magabrotheeeer/rentflow/internal/services/rentreminder"
	schedulerservice "github.com/magabrotheeeer/rentflow/internal/services/scheduler"
	"github.com/magabrotheeeer/rentflow/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.SchedulerService
	job              *rentreminder.Job
	cfg              config.Scheduler
	db               *repository.Storage
	cache            *cache.Cache
	conn             *amqp.Connection
	ch               *amqp.Channel
	logger           *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	app := &App{cfg: cfg.Scheduler, db: db, logger: logger}

	if err := repository.WaitForDB(ctx, db, 10, 3*time.Second); err != nil {
		app.closeResources()
		return nil, err
	}

	if cfg.Addr != "" {
		app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("cache not initialized: %w", err)
		}
	}

	var publisher *rabbitmq.Publisher
	if cfg.RabbitMQURL != "" {
		app.conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		app.ch, err = rabbitmq.SetupChannel(app.conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
		}
		publisher = rabbitmq.NewPublisher(app.ch)
	} else {
		logger.Warn("rabbitmq is not configured, due reminders will not be published")
	}

	app.job, err = rentjob.Build(cfg, rentjob.Deps{
		Repo:      db,
		Cache:     app.cache,
		Publisher: publisher,
	}, logger)
	if err != nil {
		app.closeResources()
		return nil, err
	}

	var duePublisher schedulerservice.Publisher
	if publisher != nil {
		duePublisher = publisher
	}
	loc, _ := cfg.Location()
	app.schedulerService = schedulerservice.NewSchedulerService(db, duePublisher, loc, logger)
	return app, nil
}

// Run запускает планировщик.
func (a *App) Run(ctx context.Context) error {
	go a.schedulerService.RunRentReminders(ctx, a.job, a.cfg.RentInterval)
	if a.ch != nil {
		go a.schedulerService.PublishDueReminders(ctx, a.cfg.RemindersInterval)
	}

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	a.closeResources()
	return nil
}

func (a *App) closeResources() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}

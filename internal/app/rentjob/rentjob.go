// Package rentjob собирает движок напоминаний об аренде и его окружение из конфига.
package rentjob

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/rentflow/internal/cache"
	"github.com/magabrotheeeer/rentflow/internal/config"
	"github.com/magabrotheeeer/rentflow/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/rentflow/internal/lib/smtp"
	"github.com/magabrotheeeer/rentflow/internal/lib/twilio"
	"github.com/magabrotheeeer/rentflow/internal/metrics"
	"github.com/magabrotheeeer/rentflow/internal/notify"
	"github.com/magabrotheeeer/rentflow/internal/services/rentreminder"
)

// Deps инфраструктура, доступная процессу. Cache, Publisher и Metrics
// могут быть nil.
type Deps struct {
	Repo      rentreminder.Repository
	Cache     *cache.Cache
	Publisher *rabbitmq.Publisher
	Metrics   *metrics.RunMetrics
}

// Gateways создаёт шлюзы уведомлений. Канал без настроек возвращается как nil.
func Gateways(cfg *config.Config, log *slog.Logger) (sms, email notify.Gateway) {
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioPhoneNumber != "" {
		sms = notify.NewSMS(twilio.NewClient(cfg.Twilio, &http.Client{Timeout: cfg.NotifyTimeout}))
	} else {
		log.Warn("twilio is not configured, sms notifications disabled")
	}
	if cfg.SMTPHost != "" {
		email = notify.NewEmail(smtp.NewMailer(smtp.NewTransport(cfg.SMTP, log)))
	} else {
		log.Warn("smtp is not configured, email notifications disabled")
	}
	return sms, email
}

// Build собирает Job поверх движка.
func Build(cfg *config.Config, deps Deps, log *slog.Logger) (*rentreminder.Job, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	sms, email := Gateways(cfg, log)
	engine := rentreminder.NewEngine(deps.Repo, sms, email, rentreminder.Options{
		GraceDays:     cfg.GraceDays,
		TenantEmail:   cfg.TenantEmail,
		Location:      loc,
		NotifyTimeout: cfg.NotifyTimeout,
		Brand:         cfg.Brand,
		Currency:      cfg.Currency,
	}, log)

	jobCfg := rentreminder.JobConfig{
		LockTTL:    cfg.LockTTL,
		LastRunTTL: cfg.LastRunTTL,
		Location:   loc,
	}
	if deps.Cache != nil {
		jobCfg.Locker = deps.Cache
		jobCfg.Store = deps.Cache
	}
	if deps.Publisher != nil {
		jobCfg.Publisher = deps.Publisher
	}
	if deps.Metrics != nil {
		jobCfg.Recorder = deps.Metrics
	}
	return rentreminder.NewJob(engine, jobCfg, log), nil
}

// Package metrics учитывает итоги запусков напоминаний об аренде в Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/rentflow/internal/models"
)

const namespace = "rentflow"

// RunMetrics набор метрик движка напоминаний.
type RunMetrics struct {
	runs                *prometheus.CounterVec
	remindersCreated    prometheus.Counter
	tenantNotifications prometheus.Counter
	adminNotifications  prometheus.Counter
	markedLate          prometheus.Counter
	runErrors           prometheus.Counter
	duration            prometheus.Histogram
	lastRun             prometheus.Gauge
}

// New создаёт и регистрирует метрики в reg.
func New(reg prometheus.Registerer) *RunMetrics {
	m := &RunMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rent_reminder_runs_total",
			Help:      "Rent reminder runs by outcome.",
		}, []string{"outcome"}),
		remindersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rent_reminders_created_total",
			Help:      "Rent reminders materialized.",
		}),
		tenantNotifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rent_tenant_notifications_total",
			Help:      "Tenants notified about rent.",
		}),
		adminNotifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rent_admin_notifications_total",
			Help:      "Admin and manager digests delivered.",
		}),
		markedLate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rent_reminders_marked_late_total",
			Help:      "Rent reminders moved to late.",
		}),
		runErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rent_reminder_run_errors_total",
			Help:      "Errors collected in run summaries.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rent_reminder_run_duration_seconds",
			Help:      "Rent reminder run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rent_reminder_last_run_timestamp_seconds",
			Help:      "Unix time of the last finished run.",
		}),
	}
	reg.MustRegister(
		m.runs,
		m.remindersCreated,
		m.tenantNotifications,
		m.adminNotifications,
		m.markedLate,
		m.runErrors,
		m.duration,
		m.lastRun,
	)
	return m
}

// Observe учитывает итог запуска.
func (m *RunMetrics) Observe(summary models.RunSummary) {
	outcome := "success"
	if len(summary.Errors) > 0 {
		outcome = "partial"
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.remindersCreated.Add(float64(summary.RemindersCreated))
	m.tenantNotifications.Add(float64(summary.TenantNotifications))
	m.adminNotifications.Add(float64(summary.AdminNotifications))
	m.markedLate.Add(float64(summary.MarkedLate))
	m.runErrors.Add(float64(len(summary.Errors)))
	m.duration.Observe(summary.Duration().Seconds())
	if !summary.FinishedAt.IsZero() {
		m.lastRun.Set(float64(summary.FinishedAt.Unix()))
	}
}

// Package api предоставляет HTTP API сервиса: запуск обработки напоминаний
// об аренде, итог последнего запуска и отметку оплаты.
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/rentflow/internal/http/handlers/health"
	"github.com/magabrotheeeer/rentflow/internal/http/handlers/rentreminders/lastrun"
	"github.com/magabrotheeeer/rentflow/internal/http/handlers/rentreminders/markpaid"
	"github.com/magabrotheeeer/rentflow/internal/http/handlers/rentreminders/process"
	"github.com/magabrotheeeer/rentflow/internal/http/middlewarectx"
	"github.com/magabrotheeeer/rentflow/internal/models"
)

// RentJob запуск обработки и чтение итога последнего запуска.
type RentJob interface {
	Run(ctx context.Context) models.RunSummary
	LastRun(ctx context.Context) (*models.RunSummary, bool, error)
}

// PaymentService отметка оплаты.
type PaymentService interface {
	MarkPaid(ctx context.Context, id string, paidAt *time.Time) (*models.RentReminder, error)
}

// Routes зависимости маршрутов.
type Routes struct {
	Tokens   middlewarectx.TokenParser
	Job      RentJob
	Payments PaymentService
	DB       health.Pinger
	Gatherer prometheus.Gatherer
	Limiter  *rate.Limiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Routes) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.Tokens, logger))
			r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin, models.RoleManager))
			r.Use(middlewarectx.RateLimitMiddleware(logger, deps.Limiter))
			r.Post("/rent-reminders/process", process.New(logger, deps.Job).ServeHTTP)
			r.Get("/rent-reminders/last-run", lastrun.New(logger, deps.Job).ServeHTTP)
			r.Post("/rent-reminders/{id}/paid", markpaid.New(logger, deps.Payments).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, deps.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
}

// Package process запускает обработку напоминаний об аренде по HTTP-запросу.
package process

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/rentflow/internal/models"
)

// Result тело ответа ручки.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Results models.RunSummary `json:"results"`
}

// Runner выполняет один проход.
type Runner interface {
	Run(ctx context.Context) models.RunSummary
}

// Handler обрабатывает POST /rent-reminders/process.
type Handler struct {
	log    *slog.Logger
	runner Runner
}

// New создает новый Handler.
func New(log *slog.Logger, runner Runner) *Handler {
	return &Handler{
		log:    log,
		runner: runner,
	}
}

// ServeHTTP выполняет проход и возвращает его итог. Ошибки отдельных шагов
// попадают в results.errors, ответ всегда 200.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rentreminders.process"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	// Проход не прерывается, если клиент отключился до ответа.
	summary := h.runner.Run(context.WithoutCancel(r.Context()))

	log.Info("rent reminders processed",
		slog.Int("reminders_created", summary.RemindersCreated),
		slog.Int("errors", len(summary.Errors)),
	)
	render.JSON(w, r, Result{
		Success: true,
		Message: "Rent reminders processed",
		Results: summary,
	})
}

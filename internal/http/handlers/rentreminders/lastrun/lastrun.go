// Package lastrun отдаёт итог последнего запуска напоминаний об аренде.
package lastrun

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/rentflow/internal/http/response"
	"github.com/magabrotheeeer/rentflow/internal/lib/sl"
	"github.com/magabrotheeeer/rentflow/internal/models"
)

// Service источник итога последнего запуска.
type Service interface {
	LastRun(ctx context.Context) (*models.RunSummary, bool, error)
}

// Handler обрабатывает GET /rent-reminders/last-run.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rentreminders.lastrun"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	summary, found, err := h.service.LastRun(r.Context())
	if err != nil {
		log.Error("failed to read last run", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if !found {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("no runs recorded"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(summary))
}

// Package markpaid фиксирует оплату аренды за месяц.
package markpaid

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/rentflow/internal/http/response"
	"github.com/magabrotheeeer/rentflow/internal/lib/sl"
	"github.com/magabrotheeeer/rentflow/internal/models"
	"github.com/magabrotheeeer/rentflow/internal/storage/repository"
)

// Request тело запроса. Пустое тело допустимо.
type Request struct {
	PaidAt *time.Time `json:"paid_at" validate:"omitempty,notfuture"`
}

// Service фиксирует оплату.
type Service interface {
	MarkPaid(ctx context.Context, id string, paidAt *time.Time) (*models.RentReminder, error)
}

// Handler обрабатывает POST /rent-reminders/{id}/paid.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	v := validator.New()
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.After(time.Now().Add(time.Minute))
	})
	return &Handler{
		log:      log,
		service:  service,
		validate: v,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rentreminders.markpaid"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid reminder id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	reminder, err := h.service.MarkPaid(r.Context(), id.String(), req.PaidAt)
	if errors.Is(err, repository.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("rent reminder not found"))
		return
	}
	if err != nil {
		log.Error("failed to mark rent reminder paid", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("rent reminder marked paid", slog.String("reminder_id", reminder.ID))
	render.JSON(w, r, response.StatusOKWithData(reminder))
}

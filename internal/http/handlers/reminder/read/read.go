// Package read реализует HTTP-обработчик чтения напоминания канала.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/campusboard/campus-news/internal/http/middlewarectx"
	"github.com/campusboard/campus-news/internal/http/response"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/models"
)

// Handler управляет HTTP-запросами на чтение напоминания.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения напоминания.
type Service interface {
	Get(ctx context.Context, requestor *models.Moderator, channelID, reminderID int64) (*models.Reminder, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить напоминание
// @Description Возвращает напоминание канала по ID. Доступно ответственным модераторам канала.
// @Tags Reminders
// @Produce  json
// @Param id path int true "ID канала"
// @Param reminderId path int true "ID напоминания"
// @Success 200 {object} response.Response "Напоминание"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Напоминание не найдено"
// @Security BearerAuth
// @Router /channels/{id}/reminders/{reminderId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reminder.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requestor, ok := middlewarectx.ModeratorFromContext(r.Context())
	if !ok {
		log.Error("moderator not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	channelID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid channel id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid channel id"))
		return
	}
	reminderID, err := strconv.ParseInt(chi.URLParam(r, "reminderId"), 10, 64)
	if err != nil {
		log.Error("invalid reminder id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid reminder id"))
		return
	}

	reminder, err := h.service.Get(r.Context(), requestor, channelID, reminderID)
	if err != nil {
		log.Error("failed to read reminder", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(reminder))
}

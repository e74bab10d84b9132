// Package update реализует HTTP-обработчик частичного обновления напоминания.
//
// После изменения расписание пересчитывается планировщиком заново.
package update

import (
	"context"
	"encoding/json"
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
	reminderservice "github.com/campusboard/campus-news/internal/services/reminder"
)

// Handler управляет HTTP-запросами на обновление напоминаний.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления напоминания.
type Service interface {
	Update(ctx context.Context, requestor *models.Moderator, channelID, reminderID int64, patch reminderservice.ReminderPatch) (*models.Reminder, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить напоминание
// @Description Применяет частичное обновление напоминания. Непереданные поля не меняются, пустой патч отклоняется.
// @Tags Reminders
// @Accept  json
// @Produce  json
// @Param id path int true "ID канала"
// @Param reminderId path int true "ID напоминания"
// @Param request body reminderservice.ReminderPatch true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновлённое напоминание"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, даты или интервал"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Напоминание не найдено"
// @Security BearerAuth
// @Router /channels/{id}/reminders/{reminderId} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reminder.update"
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

	var patch reminderservice.ReminderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	reminder, err := h.service.Update(r.Context(), requestor, channelID, reminderID, patch)
	if err != nil {
		log.Error("failed to update reminder", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("reminder updated", slog.Int64("id", reminder.ID))
	render.JSON(w, r, response.StatusOKWithData(reminder))
}

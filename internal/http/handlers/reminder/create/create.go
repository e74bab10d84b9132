// Package create реализует HTTP-обработчик создания напоминания в канале.
//
// Handler принимает JSON-запрос с расписанием и содержимым будущего
// объявления, валидирует его и вызывает бизнес-логику создания напоминания.
// Интервал задаётся в секундах: 0 — одноразовое напоминание, иначе значение,
// кратное суткам, в границах от одного дня до четырёх недель.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/campusboard/campus-news/internal/http/middlewarectx"
	"github.com/campusboard/campus-news/internal/http/response"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/models"
)

// Handler управляет HTTP-запросами на создание напоминаний.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания напоминания.
type Service interface {
	Create(ctx context.Context, requestor *models.Moderator, channelID int64, r models.Reminder) (*models.Reminder, error)
}

// Request тело запроса создания напоминания.
type Request struct {
	StartDate time.Time       `json:"startDate" validate:"required"`
	EndDate   time.Time       `json:"endDate" validate:"required"`
	Interval  int             `json:"interval"`
	Title     string          `json:"title" validate:"required,max=45"`
	Text      string          `json:"text" validate:"required,max=500"`
	Priority  models.Priority `json:"priority"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать напоминание
// @Description Создает напоминание, которое в назначенные даты публикует объявление в канале. Доступно ответственным модераторам канала.
// @Tags Reminders
// @Accept  json
// @Produce  json
// @Param id path int true "ID канала"
// @Param request body Request true "Расписание и содержимое"
// @Success 201 {object} response.Response "Созданное напоминание"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, даты или интервал"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /channels/{id}/reminders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reminder.create"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int("interval", req.Interval))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	reminder, err := h.service.Create(r.Context(), requestor, channelID, models.Reminder{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Interval:  req.Interval,
		Title:     req.Title,
		Text:      req.Text,
		Priority:  req.Priority,
	})
	if err != nil {
		log.Error("failed to create reminder", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("reminder created", slog.Int64("id", reminder.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(reminder))
}

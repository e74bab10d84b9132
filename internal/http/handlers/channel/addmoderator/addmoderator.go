// Package addmoderator реализует HTTP-обработчик добавления ответственного
// модератора к каналу.
package addmoderator

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/campusboard/campus-news/internal/http/middlewarectx"
	"github.com/campusboard/campus-news/internal/http/response"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/models"
)

// Handler управляет HTTP-запросами на добавление модераторов к каналу.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики добавления модератора к каналу.
type Service interface {
	AddModerator(ctx context.Context, requestor *models.Moderator, channelID int64, moderatorName string) error
}

// Request тело запроса добавления модератора.
type Request struct {
	Name string `json:"name" validate:"required"`
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
// @Summary Добавить модератора к каналу
// @Description Делает модератора с данным именем ответственным за канал. Доступно только модераторам, уже ответственным за канал.
// @Tags Channels
// @Accept  json
// @Produce  json
// @Param id path int true "ID канала"
// @Param request body Request true "Имя модератора"
// @Success 200 {object} response.Response "Модератор добавлен"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Модератор не найден"
// @Security BearerAuth
// @Router /channels/{id}/moderators [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.addmoderator"
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

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.AddModerator(r.Context(), requestor, channelID, req.Name); err != nil {
		log.Error("failed to add moderator to channel", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("moderator added to channel", slog.Int64("channel_id", channelID),
		slog.String("name", req.Name))
	render.JSON(w, r, response.OK())
}

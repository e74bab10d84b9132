// Package removemoderator реализует HTTP-обработчик снятия ответственного
// модератора с канала.
package removemoderator

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

// Handler управляет HTTP-запросами на снятие модераторов с канала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики снятия модератора с канала.
type Service interface {
	RemoveModerator(ctx context.Context, requestor *models.Moderator, channelID, moderatorID int64) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Снять модератора с канала
// @Description Снимает с модератора ответственность за канал. Последнего активного модератора снять нельзя. Доступно только модераторам, ответственным за канал.
// @Tags Channels
// @Produce  json
// @Param id path int true "ID канала"
// @Param moderatorId path int true "ID модератора"
// @Success 200 {object} response.Response "Модератор снят"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Модератор не найден"
// @Security BearerAuth
// @Router /channels/{id}/moderators/{moderatorId} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.removemoderator"
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
	moderatorID, err := strconv.ParseInt(chi.URLParam(r, "moderatorId"), 10, 64)
	if err != nil {
		log.Error("invalid moderator id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid moderator id"))
		return
	}

	if err := h.service.RemoveModerator(r.Context(), requestor, channelID, moderatorID); err != nil {
		log.Error("failed to remove moderator from channel", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("moderator removed from channel", slog.Int64("channel_id", channelID),
		slog.Int64("moderator_id", moderatorID))
	render.JSON(w, r, response.OK())
}

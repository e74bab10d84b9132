// Package read реализует HTTP-обработчик чтения канала по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/campusboard/campus-news/internal/http/response"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/models"
)

// Handler управляет HTTP-запросами на чтение канала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения канала.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Channel, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить канал
// @Description Возвращает канал по ID вместе с вариативным пейлоадом и модераторами.
// @Tags Channels
// @Produce  json
// @Param id path int true "ID канала"
// @Success 200 {object} response.Response "Канал"
// @Failure 404 {object} response.ErrorResponse "Канал не найден"
// @Security BearerAuth
// @Router /channels/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid channel id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid channel id"))
		return
	}

	channel, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to read channel", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(channel))
}

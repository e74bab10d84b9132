// Package list реализует HTTP-обработчик получения списка каналов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/campusboard/campus-news/internal/http/response"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/models"
)

// Handler управляет HTTP-запросами на получение списка каналов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка каналов.
type Service interface {
	List(ctx context.Context) ([]*models.Channel, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить список каналов
// @Description Возвращает все каналы вместе с их модераторами.
// @Tags Channels
// @Produce  json
// @Success 200 {object} response.Response "Список каналов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /channels [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	channels, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list channels", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("channels listed", slog.Int("count", len(channels)))
	render.JSON(w, r, response.StatusOKWithData(channels))
}

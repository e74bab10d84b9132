// Package get реализует HTTP-обработчик чтения учётной записи модератора.
package get

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

// Handler управляет HTTP-запросами на чтение учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения учётной записи.
type Service interface {
	Get(ctx context.Context, requestor *models.Moderator, id int64) (*models.Moderator, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить учётную запись модератора
// @Description Возвращает учётную запись по ID. Не-администратор может запросить только собственную запись.
// @Tags Moderators
// @Produce  json
// @Param id path int true "ID модератора"
// @Success 200 {object} response.Response "Учётная запись"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Security BearerAuth
// @Router /moderators/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moderator.get"
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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid moderator id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid moderator id"))
		return
	}

	moderator, err := h.service.Get(r.Context(), requestor, id)
	if err != nil {
		log.Error("failed to get moderator", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(moderator))
}

// Package remove реализует HTTP-обработчик удаления учётной записи модератора.
package remove

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

// Handler управляет HTTP-запросами на удаление учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления учётной записи.
type Service interface {
	Delete(ctx context.Context, requestor *models.Moderator, targetID int64) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить учётную запись модератора
// @Description Мягко удаляет учётную запись и деактивирует её связи с каналами. Администраторов и единственных ответственных модераторов удалять нельзя.
// @Tags Moderators
// @Produce  json
// @Param id path int true "ID модератора"
// @Success 200 {object} response.Response "Учётная запись удалена"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Удаление запрещено"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Security BearerAuth
// @Router /moderators/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moderator.remove"
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

	if err := h.service.Delete(r.Context(), requestor, id); err != nil {
		log.Error("failed to delete moderator", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("moderator deleted", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

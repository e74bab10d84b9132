// Package update реализует HTTP-обработчик частичного обновления учётной
// записи модератора. Администратор меняет флаги locked и admin чужих записей,
// владелец — собственные контактные данные и пароль.
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
)

// Handler управляет HTTP-запросами на обновление учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления учётной записи.
type Service interface {
	Update(ctx context.Context, requestor *models.Moderator, targetID int64, patch models.ModeratorPatch) (*models.Moderator, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить учётную запись модератора
// @Description Применяет частичное обновление. Непереданные поля не меняются, пустой патч отклоняется.
// @Tags Moderators
// @Accept  json
// @Produce  json
// @Param id path int true "ID модератора"
// @Param request body models.ModeratorPatch true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновлённая учётная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустой патч"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Security BearerAuth
// @Router /moderators/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moderator.update"
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

	var patch models.ModeratorPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	moderator, err := h.service.Update(r.Context(), requestor, id, patch)
	if err != nil {
		log.Error("failed to update moderator", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("moderator updated", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(moderator))
}

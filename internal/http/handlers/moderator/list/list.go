// Package list реализует HTTP-обработчик получения списка модераторов.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/campusboard/campus-news/internal/http/middlewarectx"
	"github.com/campusboard/campus-news/internal/http/response"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/models"
)

// Handler управляет HTTP-запросами на получение списка учётных записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка учётных записей.
type Service interface {
	List(ctx context.Context, requestor *models.Moderator, isLocked, isAdmin *bool) ([]*models.Moderator, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func boolQueryParam(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ServeHTTP godoc
// @Summary Получить список модераторов
// @Description Возвращает учётные записи, отфильтрованные по флагам locked и admin. Доступно только администраторам.
// @Tags Moderators
// @Produce  json
// @Param isLocked query bool false "Фильтр по флагу locked"
// @Param isAdmin query bool false "Фильтр по флагу admin"
// @Success 200 {object} response.Response "Список учётных записей"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Security BearerAuth
// @Router /moderators [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moderator.list"
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

	isLocked, err := boolQueryParam(r, "isLocked")
	if err != nil {
		log.Error("invalid isLocked filter", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid isLocked filter"))
		return
	}
	isAdmin, err := boolQueryParam(r, "isAdmin")
	if err != nil {
		log.Error("invalid isAdmin filter", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid isAdmin filter"))
		return
	}

	moderators, err := h.service.List(r.Context(), requestor, isLocked, isAdmin)
	if err != nil {
		log.Error("failed to list moderators", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("moderators listed", slog.Int("count", len(moderators)))
	render.JSON(w, r, response.StatusOKWithData(moderators))
}

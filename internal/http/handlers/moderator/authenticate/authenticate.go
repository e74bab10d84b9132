// Package authenticate реализует HTTP-обработчик аутентификации модератора
// по имени учётной записи и хэшу пароля.
package authenticate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/campusboard/campus-news/internal/http/response"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/models"
)

// Handler управляет HTTP-запросами на аутентификацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Authenticate(ctx context.Context, name, passwordHash string) (*models.Moderator, error)
}

// Request тело запроса аутентификации. Поле Password содержит SHA-256 хэш
// пароля, вычисленный клиентом.
type Request struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,hexadecimal"`
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
// @Summary Аутентифицировать модератора
// @Description Проверяет учётные данные и возвращает учётную запись вместе с её идентификационным токеном. Несуществующее имя и неверный пароль неразличимы в ответе.
// @Tags Moderators
// @Accept  json
// @Produce  json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} response.Response "Учётная запись с токеном"
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 410 {object} response.ErrorResponse "Учётная запись удалена"
// @Failure 423 {object} response.ErrorResponse "Учётная запись заблокирована"
// @Router /moderators/authentication [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moderator.authenticate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	moderator, err := h.service.Authenticate(r.Context(), req.Name, req.Password)
	if err != nil {
		log.Error("authentication failed", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("moderator authenticated", slog.Int64("id", moderator.ID))
	render.JSON(w, r, response.StatusOKWithData(moderator))
}

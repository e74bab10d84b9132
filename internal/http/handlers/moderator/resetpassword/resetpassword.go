// Package resetpassword реализует HTTP-обработчик сброса пароля модератора.
//
// Операция не требует авторизации: новый пароль отправляется только на
// почтовый адрес владельца учётной записи.
package resetpassword

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
)

// Handler управляет HTTP-запросами на сброс пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики сброса пароля.
type Service interface {
	ResetPassword(ctx context.Context, name string) error
}

// Request тело запроса сброса пароля.
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
// @Summary Сбросить пароль модератора
// @Description Генерирует новый пароль и отправляет его на почту владельца. Пароль меняется только после успешной отправки письма.
// @Tags Moderators
// @Accept  json
// @Produce  json
// @Param request body Request true "Имя учётной записи"
// @Success 200 {object} response.Response "Пароль сброшен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или имя"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Письмо не доставлено"
// @Router /moderators/password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moderator.resetpassword"
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
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Name); err != nil {
		log.Error("failed to reset password", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("password reset", slog.String("name", req.Name))
	render.JSON(w, r, response.OK())
}

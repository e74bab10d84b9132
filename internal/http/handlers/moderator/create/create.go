// Package create реализует HTTP-обработчик регистрации учётной записи модератора.
//
// Handler принимает JSON-запрос с данными заявки, валидирует их, вызывает
// бизнес-логику создания учётной записи и возвращает созданную запись без
// пароля и токена. Выданный идентификационный токен доставляется отдельным
// заголовком X-Identity-Token и не попадает в тело ответа.
package create

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

// Handler управляет HTTP-запросами на регистрацию модераторов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания учётной записи.
type Service interface {
	Create(ctx context.Context, m models.Moderator) (*models.Moderator, string, error)
}

// Request тело запроса регистрации. Поле Password содержит SHA-256 хэш
// пароля, вычисленный клиентом.
type Request struct {
	Name       string          `json:"name" validate:"required"`
	Password   string          `json:"password" validate:"required,hexadecimal"`
	Email      string          `json:"email" validate:"required,email"`
	FirstName  string          `json:"firstName" validate:"required,max=45"`
	LastName   string          `json:"lastName" validate:"required,max=45"`
	Motivation string          `json:"motivation" validate:"required,max=300"`
	Language   models.Language `json:"language"`
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
// @Summary Зарегистрировать модератора
// @Description Создает заявку на учётную запись модератора. Запись создаётся заблокированной до одобрения администратором. Идентификационный токен возвращается в заголовке X-Identity-Token.
// @Tags Moderators
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные заявки"
// @Success 201 {object} response.Response "Созданная учётная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или данные"
// @Failure 409 {object} response.ErrorResponse "Имя уже занято"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /moderators [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moderator.create"
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
	log.Info("request body decoded", slog.String("name", req.Name))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	moderator, accessToken, err := h.service.Create(r.Context(), models.Moderator{
		Name:         req.Name,
		PasswordHash: req.Password,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Motivation:   req.Motivation,
		Language:     req.Language,
	})
	if err != nil {
		log.Error("failed to create moderator", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("moderator created", slog.Int64("id", moderator.ID))
	w.Header().Set("X-Identity-Token", accessToken)
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(moderator))
}

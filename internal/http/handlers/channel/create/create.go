// Package create реализует HTTP-обработчик создания канала.
//
// Handler принимает JSON-запрос с данными канала и вариативным пейлоадом,
// соответствующим его типу, и делает запрашивающего модератора первым
// ответственным за канал.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/campusboard/campus-news/internal/http/middlewarectx"
	"github.com/campusboard/campus-news/internal/http/response"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/models"
)

// Handler управляет HTTP-запросами на создание каналов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания канала.
type Service interface {
	Create(ctx context.Context, requestor *models.Moderator, c models.Channel) (*models.Channel, error)
}

// Request тело запроса создания канала.
type Request struct {
	Name        string              `json:"name" validate:"required,max=45"`
	Description string              `json:"description" validate:"max=500"`
	Type        models.ChannelType  `json:"type" validate:"required"`
	Term        string              `json:"term"`
	Locations   string              `json:"locations"`
	Dates       string              `json:"dates"`
	Contacts    string              `json:"contacts"`
	Website     string              `json:"website"`
	Lecture     *models.LectureInfo `json:"lecture"`
	Event       *models.EventInfo   `json:"event"`
	Sports      *models.SportsInfo  `json:"sports"`
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
// @Summary Создать канал
// @Description Создает новый канал. Запрашивающий модератор становится его первым ответственным модератором.
// @Tags Channels
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные канала"
// @Success 201 {object} response.Response "Созданный канал"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или данные"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /channels [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.create"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("name", req.Name), slog.String("type", string(req.Type)))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	channel, err := h.service.Create(r.Context(), requestor, models.Channel{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Term:        req.Term,
		Locations:   req.Locations,
		Dates:       req.Dates,
		Contacts:    req.Contacts,
		Website:     req.Website,
		Lecture:     req.Lecture,
		Event:       req.Event,
		Sports:      req.Sports,
	})
	if err != nil {
		log.Error("failed to create channel", sl.Err(err))
		status, body := response.AppError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("channel created", slog.Int64("id", channel.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(channel))
}

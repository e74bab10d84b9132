// Package health реализует HTTP-обработчик проверки готовности сервера.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/campusboard/campus-news/internal/http/response"
	"github.com/campusboard/campus-news/internal/lib/sl"
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	CheckDatabaseReady(ctx context.Context) error
}

type Handler struct {
	log     *slog.Logger
	storage Pinger
}

func New(log *slog.Logger, storage Pinger) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	if err := h.storage.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("storage is not ready", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("storage is not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": "ok",
	}))
}

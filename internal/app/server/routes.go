// Package server собирает HTTP-приложение: маршруты, middleware и зависимости.
package server

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	channeladdmoderator "github.com/campusboard/campus-news/internal/http/handlers/channel/addmoderator"
	channelcreate "github.com/campusboard/campus-news/internal/http/handlers/channel/create"
	channellist "github.com/campusboard/campus-news/internal/http/handlers/channel/list"
	channelread "github.com/campusboard/campus-news/internal/http/handlers/channel/read"
	channelremovemoderator "github.com/campusboard/campus-news/internal/http/handlers/channel/removemoderator"
	"github.com/campusboard/campus-news/internal/http/handlers/health"
	moderatorauthenticate "github.com/campusboard/campus-news/internal/http/handlers/moderator/authenticate"
	moderatorcreate "github.com/campusboard/campus-news/internal/http/handlers/moderator/create"
	moderatorget "github.com/campusboard/campus-news/internal/http/handlers/moderator/get"
	moderatorlist "github.com/campusboard/campus-news/internal/http/handlers/moderator/list"
	moderatorremove "github.com/campusboard/campus-news/internal/http/handlers/moderator/remove"
	moderatorresetpassword "github.com/campusboard/campus-news/internal/http/handlers/moderator/resetpassword"
	moderatorupdate "github.com/campusboard/campus-news/internal/http/handlers/moderator/update"
	remindercreate "github.com/campusboard/campus-news/internal/http/handlers/reminder/create"
	reminderlist "github.com/campusboard/campus-news/internal/http/handlers/reminder/list"
	reminderread "github.com/campusboard/campus-news/internal/http/handlers/reminder/read"
	reminderremove "github.com/campusboard/campus-news/internal/http/handlers/reminder/remove"
	reminderupdate "github.com/campusboard/campus-news/internal/http/handlers/reminder/update"
	"github.com/campusboard/campus-news/internal/http/middlewarectx"
	channelservice "github.com/campusboard/campus-news/internal/services/channel"
	moderatorservice "github.com/campusboard/campus-news/internal/services/moderator"
	reminderservice "github.com/campusboard/campus-news/internal/services/reminder"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	moderators *moderatorservice.ModeratorService,
	channels *channelservice.ChannelService,
	reminders *reminderservice.ReminderService,
	pinger health.Pinger) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки: регистрация, вход, сброс пароля
		r.Post("/moderators", moderatorcreate.New(logger, moderators).ServeHTTP)
		r.Post("/moderators/authentication", moderatorauthenticate.New(logger, moderators).ServeHTTP)
		r.Post("/moderators/password", moderatorresetpassword.New(logger, moderators).ServeHTTP)

		// Группа с аутентификацией по идентификационному токену
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(moderators, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/moderators", moderatorlist.New(logger, moderators).ServeHTTP)
			r.Get("/moderators/{id}", moderatorget.New(logger, moderators).ServeHTTP)
			r.Patch("/moderators/{id}", moderatorupdate.New(logger, moderators).ServeHTTP)
			r.Delete("/moderators/{id}", moderatorremove.New(logger, moderators).ServeHTTP)

			r.Post("/channels", channelcreate.New(logger, channels).ServeHTTP)
			r.Get("/channels", channellist.New(logger, channels).ServeHTTP)
			r.Get("/channels/{id}", channelread.New(logger, channels).ServeHTTP)
			r.Post("/channels/{id}/moderators", channeladdmoderator.New(logger, channels).ServeHTTP)
			r.Delete("/channels/{id}/moderators/{moderatorId}", channelremovemoderator.New(logger, channels).ServeHTTP)

			r.Post("/channels/{id}/reminders", remindercreate.New(logger, reminders).ServeHTTP)
			r.Get("/channels/{id}/reminders", reminderlist.New(logger, reminders).ServeHTTP)
			r.Get("/channels/{id}/reminders/{reminderId}", reminderread.New(logger, reminders).ServeHTTP)
			r.Patch("/channels/{id}/reminders/{reminderId}", reminderupdate.New(logger, reminders).ServeHTTP)
			r.Delete("/channels/{id}/reminders/{reminderId}", reminderremove.New(logger, reminders).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, pinger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

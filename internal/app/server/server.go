package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/campusboard/campus-news/internal/cache"
	"github.com/campusboard/campus-news/internal/config"
	"github.com/campusboard/campus-news/internal/lib/password"
	"github.com/campusboard/campus-news/internal/lib/rabbitmq"
	"github.com/campusboard/campus-news/internal/lib/smtp"
	"github.com/campusboard/campus-news/internal/lib/token"
	"github.com/campusboard/campus-news/internal/lib/translator"
	"github.com/campusboard/campus-news/internal/migrations"
	"github.com/campusboard/campus-news/internal/models"
	channelservice "github.com/campusboard/campus-news/internal/services/channel"
	mailerservice "github.com/campusboard/campus-news/internal/services/mailer"
	moderatorservice "github.com/campusboard/campus-news/internal/services/moderator"
	reminderservice "github.com/campusboard/campus-news/internal/services/reminder"
	"github.com/campusboard/campus-news/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его внешние соединения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	publisher := &rabbitmq.ChannelPublisher{Ch: ch}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	mailer := mailerservice.NewMailerService(transport, translator.MustNew(logger), cfg.AppName, logger)

	moderators := moderatorservice.NewModeratorService(db, db, mailer, publisher, cacheRedis,
		token.New(), password.NewGenerator(), models.Language(cfg.DefaultLanguage), logger)
	channels := channelservice.NewChannelService(db, db, cacheRedis, logger)
	reminders := reminderservice.NewReminderService(db, channels, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, moderators, channels, reminders, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", slog.Any("err", cerr))
		}
		return err
	}
}

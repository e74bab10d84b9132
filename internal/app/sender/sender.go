// Package sender собирает воркер доставки уведомлений.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/campusboard/campus-news/internal/config"
	"github.com/campusboard/campus-news/internal/lib/push"
	"github.com/campusboard/campus-news/internal/lib/rabbitmq"
	"github.com/campusboard/campus-news/internal/lib/smtp"
	"github.com/campusboard/campus-news/internal/lib/translator"
	mailerservice "github.com/campusboard/campus-news/internal/services/mailer"
	senderservice "github.com/campusboard/campus-news/internal/services/sender"
	"github.com/campusboard/campus-news/internal/storage/repository"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	db            *repository.Storage
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
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

	transport := smtp.NewTransport(cfg.SMTP, logger)
	mailer := mailerservice.NewMailerService(transport, translator.MustNew(logger), cfg.AppName, logger)
	gateway := push.NewGateway(cfg.Push, logger)
	senderService := senderservice.NewSenderService(db, mailer, gateway, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		db:            db,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.QueueAnnouncements, a.senderService.HandleAnnouncement)
	if err != nil {
		a.logger.Error("failed to start announcements consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.QueuePush, a.senderService.HandlePush)
	if err != nil {
		a.logger.Error("failed to start push consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close database", slog.Any("err", err))
	}

	return nil
}

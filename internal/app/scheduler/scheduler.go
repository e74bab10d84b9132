// Package scheduler собирает приложение планировщика напоминаний.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/campusboard/campus-news/internal/config"
	"github.com/campusboard/campus-news/internal/lib/rabbitmq"
	moderatorservice "github.com/campusboard/campus-news/internal/services/moderator"
	schedulerservice "github.com/campusboard/campus-news/internal/services/scheduler"
	"github.com/campusboard/campus-news/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.SchedulerService
	tick             time.Duration
	conn             *amqp.Connection
	ch               *amqp.Channel
	db               *repository.Storage
	logger           *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range 10 {
		if err := db.CheckDatabaseReady(ctx); err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	publisher := &rabbitmq.ChannelPublisher{Ch: ch}
	purger := moderatorservice.NewPurger(db, db, logger)
	schedulerService := schedulerservice.NewSchedulerService(db, publisher, purger, logger)

	return &App{
		schedulerService: schedulerService,
		tick:             cfg.TickInterval,
		conn:             conn,
		ch:               ch,
		db:               db,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает цикл обработки напоминаний до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	a.schedulerService.Run(ctx, a.tick)

	a.logger.Info("shutting down scheduler service")

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

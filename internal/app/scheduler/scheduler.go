// Package scheduler содержит приложение, которое по расписанию публикует
// уведомления об окончании VIP.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/dramabox/internal/config"
	"github.com/magabrotheeeer/dramabox/internal/lib/clock"
	"github.com/magabrotheeeer/dramabox/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	schedulerservice "github.com/magabrotheeeer/dramabox/internal/services/scheduler"
	"github.com/magabrotheeeer/dramabox/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.Service
	spec             string
	conn             *amqp.Connection
	publisher        *rabbitmq.Publisher
	db               *repository.Storage
	logger           *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(ctx, db)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if _, err := cron.ParseStandard(cfg.ScheduleSpec); err != nil {
		return nil, fmt.Errorf("invalid schedule spec %q: %w", cfg.ScheduleSpec, err)
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQExchange, rabbitmq.NotificationQueues())
	if err != nil {
		closeResources(nil, conn, nil, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}
	publisher := rabbitmq.NewPublisher(ch, cfg.RabbitMQExchange)

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		closeResources(publisher, conn, nil, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		closeResources(publisher, conn, db, logger)
		return nil, err
	}

	return &App{
		schedulerService: schedulerservice.NewService(db, publisher, clock.Real{}, logger),
		spec:             cfg.ScheduleSpec,
		conn:             conn,
		publisher:        publisher,
		db:               db,
		logger:           logger,
	}, nil
}

func closeResources(pub *rabbitmq.Publisher, conn *amqp.Connection, db *repository.Storage, logger *slog.Logger) {
	if pub != nil {
		if err := pub.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", sl.Err(err))
		}
	}
}

// Run запускает проходы планировщика по расписанию до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(a.spec, func() { a.schedulerService.Run(ctx) }); err != nil {
		closeResources(a.publisher, a.conn, a.db, a.logger)
		return fmt.Errorf("scheduler.Run: %w", err)
	}
	c.Start()
	a.logger.Info("scheduler started", slog.String("spec", a.spec))

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	<-c.Stop().Done()
	closeResources(a.publisher, a.conn, a.db, a.logger)

	return nil
}

// Package bootstrap wires configuration and external clients into one App
// with a single Close.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-code-reviewer/internal/config"
	"ai-code-reviewer/internal/model"
	mysqlClient "ai-code-reviewer/internal/platform/mysql"
	rabbitmqClient "ai-code-reviewer/internal/platform/rabbitmq"
	redisClient "ai-code-reviewer/internal/platform/redis"
	"ai-code-reviewer/internal/ratelimit"
	"ai-code-reviewer/internal/repository"
	"ai-code-reviewer/internal/worker"
)

type App struct {
	Config        *config.Config
	Redis         *redis.Client // nil when session persistence is disabled
	MySQL         *gorm.DB      // nil unless archiving is enabled
	MQConn        *amqp.Connection
	ArchiveWorker *worker.ReviewArchiveWorker
	Limiter       *ratelimit.Limiter

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	app := &App{
		Config:    cfg,
		Limiter:   ratelimit.New(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second),
		StartedAt: time.Now(),
	}

	if cfg.Redis.Addr != "" {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		app.Redis = redisCli
	}

	if cfg.Archive.Enabled {
		mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		if err := mysqlDB.AutoMigrate(&model.ReviewRecord{}); err != nil {
			return nil, fmt.Errorf("auto migrate tables failed: %w", err)
		}
		app.MySQL = mysqlDB

		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		app.MQConn = mqConn

		recordRepo := repository.NewReviewRecordRepository(mysqlDB)
		archiveWorker := worker.NewReviewArchiveWorker(mqConn, recordRepo, cfg.RabbitMQ.ReviewArchiveQueue)
		if err := archiveWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start archive worker failed: %w", err)
		}
		app.ArchiveWorker = archiveWorker
	}

	app.Limiter.Start()

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Limiter != nil {
		a.Limiter.Stop()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ArchiveWorker != nil {
		a.ArchiveWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}

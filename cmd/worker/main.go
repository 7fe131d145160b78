package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/scolardf/devconnector/adapters/event"
	"github.com/scolardf/devconnector/adapters/github"
	"github.com/scolardf/devconnector/adapters/persistence"
	githubUC "github.com/scolardf/devconnector/internal/application/usecase/github"
	"github.com/scolardf/devconnector/internal/config"
	"github.com/scolardf/devconnector/pkg/logger"
	"github.com/scolardf/devconnector/pkg/tracing"
)

const consumerGroup = "profile-cache-warmer"

func main() {
	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting DevConnector Worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("cannot start worker", errors.New("config Kafka brokers not found"))
	}
	if cfg.Redis.Addr == "" {
		appLogger.Fatal("cannot start worker", errors.New("config Redis address not found"))
	}

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "devconnector-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracer", err)
	}
	defer tracing.Shutdown(tp, appLogger)

	// Redis
	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	// Worker Use Case
	cacheWarmUC := githubUC.NewCacheWarmUseCase(
		github.NewClient(cfg, appLogger),
		persistence.NewRedisRepoCache(redisClient, cfg.Redis.CacheTTL),
		appLogger,
	)

	// Kafka Consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicProfileEvents,
		GroupID:  consumerGroup,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicProfileEvents), zap.String("group", consumerGroup))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		l := appLogger.With(zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset), zap.String("key", string(msg.Key)))

		ev, err := event.DecodeProfileEvent(msg.Value)
		if err != nil {
			l.Warn("Skipping undecodable event", zap.Error(err))
			commitMessage(consumer, msg, l)
			continue
		}

		if err := cacheWarmUC.Execute(ctx, ev); err != nil {
			// left uncommitted so the group redelivers it after a restart
			l.Error("Failed to process profile event", err, zap.String("event_type", string(ev.EventType)))
			continue
		}

		commitMessage(consumer, msg, l)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, l logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		l.Error("Failed to commit message", err)
	}
}

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka"
	"github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka/producer"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays staged notifications from the outbox table to Kafka.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		cfg.Database.MaxRetries,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, cfg.Kafka.PollInterval)

	logger.Info("worker shut down")
	return nil
}

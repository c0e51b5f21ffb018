package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/events"
	"github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka/consumer"
	"github.com/Jstali/employee-onboarding-sub000/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer delivers notification e-mails published by the worker.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	mailer := notification.NewSMTPMailer(cfg.SMTP, logger)
	dispatcher := notification.NewDispatcher(mailer)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.NotificationRequestedTopic,
		GroupID:        cfg.Kafka.NotificationGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeNotifications(ctx, reader, dispatcher, logger)

	logger.Info("consumer shut down")
	return nil
}

package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/events"
	"github.com/Jstali/employee-onboarding-sub000/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

var (
	initialRetryDelay = time.Second
	maxRetryDelay     = time.Minute
)

// ConsumeNotifications sends one e-mail per message. A message is committed
// only after the mail went out; on failure it is retried with backoff, which
// holds back later messages on the same partition. Messages that can never
// succeed (undecodable, unknown kind) are committed and dropped.
func ConsumeNotifications(
	ctx context.Context,
	reader MessageReader,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notification")
	log.Info("notification consumer started")

	fetchDelay := initialRetryDelay
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification consumer stopped")
				return
			}
			log.Error("fetch notification message failed",
				zap.Duration("backoff", fetchDelay),
				zap.Error(err),
			)
			if !sleepCtx(ctx, fetchDelay) {
				log.Info("notification consumer stopped")
				return
			}
			fetchDelay = min(fetchDelay*2, maxRetryDelay)
			continue
		}
		fetchDelay = initialRetryDelay

		if !handleNotification(ctx, msg, dispatcher, log) {
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
		}
	}
}

// handleNotification returns false only when ctx was cancelled before the
// message could be delivered.
func handleNotification(
	ctx context.Context,
	msg kafkago.Message,
	dispatcher notification.Dispatcher,
	log *zap.Logger,
) bool {
	var event events.NotificationRequestedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode notification event failed, dropping",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return true
	}

	m := notification.FromEvent(event)
	if !m.Valid() {
		log.Error("invalid notification event, dropping",
			zap.String("request_id", event.RequestID),
			zap.String("kind", event.Kind),
		)
		return true
	}

	delay := initialRetryDelay
	for attempt := 1; ; attempt++ {
		err := dispatcher.Dispatch(ctx, m)
		if err == nil {
			log.Info("notification sent",
				zap.String("request_id", event.RequestID),
				zap.String("kind", event.Kind),
				zap.Int("attempt", attempt),
			)
			return true
		}

		log.Warn("notification delivery failed, retrying",
			zap.String("request_id", event.RequestID),
			zap.String("kind", event.Kind),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		if !sleepCtx(ctx, delay) {
			return false
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

package producer

import (
	"context"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka"

	"go.uber.org/zap"
)

const outboxBatchSize = 50

// ProcessOutboxEvents relays due outbox rows to Kafka until ctx is done.
// A full batch is followed immediately by the next one; otherwise the
// relay waits for the next tick.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	rl := relay{repo: repo, writer: writer, log: logger.Named("kafka.producer.worker")}
	rl.log.Info("outbox relay started", zap.Duration("poll_interval", pollInterval))

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			rl.log.Info("outbox relay stopped")
			return
		case <-ticker.C:
		}

		for ctx.Err() == nil {
			n, err := rl.batch(ctx)
			if err != nil {
				rl.log.Error("outbox batch failed", zap.Error(err))
				break
			}
			if n < outboxBatchSize {
				break
			}
		}
	}
}

// ProcessPendingEvents publishes one batch and returns how many were sent.
func ProcessPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (int, error) {
	rl := relay{repo: repo, writer: writer, log: logger}
	events, err := repo.ListPending(ctx, outboxBatchSize)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, e := range events {
		if rl.one(ctx, e) {
			sent++
		}
	}
	return sent, nil
}

type relay struct {
	repo   kafka.OutboxRepository
	writer MessageWriter
	log    *zap.Logger
}

// batch returns the number of rows picked up, sent or not.
func (rl relay) batch(ctx context.Context) (int, error) {
	events, err := rl.repo.ListPending(ctx, outboxBatchSize)
	if err != nil {
		return 0, err
	}
	if len(events) > 0 {
		rl.log.Debug("relaying outbox batch", zap.Int("count", len(events)))
	}
	for _, e := range events {
		rl.one(ctx, e)
	}
	return len(events), nil
}

func (rl relay) one(ctx context.Context, e kafka.OutboxEvent) bool {
	fields := []zap.Field{
		zap.String("outbox_id", e.ID),
		zap.String("request_id", e.RequestID),
		zap.String("event_type", e.EventType),
	}

	if err := publishEvent(ctx, rl.writer, e); err != nil {
		dead := e.RetryCount+1 >= kafka.MaxOutboxRetries
		rl.log.Error("publish outbox event failed",
			append(fields, zap.Int("retry_count", e.RetryCount), zap.Bool("dead", dead), zap.Error(err))...)
		if markErr := rl.repo.MarkFailed(ctx, e.ID, err.Error()); markErr != nil {
			rl.log.Error("record outbox failure failed", append(fields, zap.Error(markErr))...)
		}
		return false
	}

	if err := rl.repo.MarkSent(ctx, e.ID); err != nil {
		// The row stays due and will be published again.
		rl.log.Error("mark outbox sent failed", append(fields, zap.Error(err))...)
		return false
	}
	rl.log.Info("outbox event sent", fields...)
	return true
}

package producer

import (
	"context"

	"github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafkago.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func publishEvent(ctx context.Context, writer MessageWriter, event kafka.OutboxEvent) error {
	headers := []kafkago.Header{
		{Key: "event_type", Value: []byte(event.EventType)},
		{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		{Key: "outbox_id", Value: []byte(event.ID)},
	}
	if event.RequestID != "" {
		headers = append(headers, kafkago.Header{Key: "request_id", Value: []byte(event.RequestID)})
	}

	msg := kafkago.Message{
		Topic:   event.Topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	}

	return writer.WriteMessages(ctx, msg)
}

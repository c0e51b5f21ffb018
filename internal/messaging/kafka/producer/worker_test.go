package producer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka"
	kafkaMock "github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	WriteFn func(ctx context.Context, msgs ...kafkago.Message) error
	written []kafkago.Message
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if f.WriteFn != nil {
		if err := f.WriteFn(ctx, msgs...); err != nil {
			return err
		}
	}
	f.written = append(f.written, msgs...)
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()
	events := []kafka.OutboxEvent{
		{ID: "e-1", RequestID: "rid-1", AggregateID: "u-1", Topic: "hr.notification.v1", EventType: "notification_requested", Payload: []byte(`{}`)},
		{ID: "e-2", AggregateID: "u-2", Topic: "hr.notification.v1", EventType: "notification_requested", Payload: []byte(`{}`), RetryCount: 9},
	}

	t.Run("marks published events sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{}

		repo.EXPECT().ListPending(ctx, 50).Return(events, nil)
		repo.EXPECT().MarkSent(ctx, "e-1").Return(nil)
		repo.EXPECT().MarkSent(ctx, "e-2").Return(nil)

		sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 2, sent)
		assert.Len(t, writer.written, 2)
		assert.Equal(t, []byte("u-1"), writer.written[0].Key)
		assert.Equal(t, "hr.notification.v1", writer.written[0].Topic)
	})

	t.Run("marks failed publishes for retry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{WriteFn: func(ctx context.Context, msgs ...kafkago.Message) error {
			if string(msgs[0].Key) == "u-2" {
				return errors.New("leader not available")
			}
			return nil
		}}

		repo.EXPECT().ListPending(ctx, 50).Return(events, nil)
		repo.EXPECT().MarkSent(ctx, "e-1").Return(nil)
		repo.EXPECT().MarkFailed(ctx, "e-2", "leader not available").Return(nil)

		sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
	})

	t.Run("list error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		repo.EXPECT().ListPending(ctx, 50).Return(nil, errors.New("db down"))

		_, err := producer.ProcessPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop())
		assert.Error(t, err)
	})
}

package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/events"
	"github.com/Jstali/employee-onboarding-sub000/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReader struct {
	msgs      []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

type fakeDispatcher struct {
	DispatchFn func(ctx context.Context, msg notification.Message) error
	sent       []notification.Message
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, msg notification.Message) error {
	if err := f.DispatchFn(ctx, msg); err != nil {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func encode(t *testing.T, e events.NotificationRequestedEvent) []byte {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return b
}

func TestConsumeNotifications(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	valid := encode(t, events.NotificationRequestedEvent{
		Kind: string(notification.KindOnboardingApproved),
		To:   "asha@example.com",
		Data: map[string]string{"name": "Asha"},
	})
	unknownKind := encode(t, events.NotificationRequestedEvent{Kind: "payslip", To: "x@example.com"})

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			{Offset: 1, Value: []byte("not json")},
			{Offset: 2, Value: unknownKind},
			{Offset: 3, Value: valid},
		},
	}
	dispatcher := &fakeDispatcher{DispatchFn: func(ctx context.Context, msg notification.Message) error { return nil }}

	ConsumeNotifications(ctx, reader, dispatcher, zap.NewNop())

	assert.Len(t, reader.committed, 3)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "asha@example.com", dispatcher.sent[0].To)
}

func TestHandleNotification_StopsRetryingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	dispatcher := &fakeDispatcher{DispatchFn: func(ctx context.Context, msg notification.Message) error {
		calls++
		cancel()
		return errors.New("smtp unavailable")
	}}

	msg := kafkago.Message{Value: encode(t, events.NotificationRequestedEvent{
		Kind: string(notification.KindPasswordReset),
		To:   "ravi@example.com",
	})}

	delivered := handleNotification(ctx, msg, dispatcher, zap.NewNop())

	assert.False(t, delivered)
	assert.Equal(t, 1, calls)
}

type failingReader struct {
	failures int
	calls    []time.Time
	cancel   context.CancelFunc
}

func (f *failingReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	f.calls = append(f.calls, time.Now())
	if len(f.calls) > f.failures {
		f.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	return kafkago.Message{}, errors.New("broker unreachable")
}

func (f *failingReader) CommitMessages(context.Context, ...kafkago.Message) error {
	return nil
}

func TestConsumeNotifications_BacksOffOnFetchErrors(t *testing.T) {
	initial, ceiling := initialRetryDelay, maxRetryDelay
	initialRetryDelay, maxRetryDelay = 20*time.Millisecond, 40*time.Millisecond
	t.Cleanup(func() { initialRetryDelay, maxRetryDelay = initial, ceiling })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &failingReader{failures: 3, cancel: cancel}
	dispatcher := &fakeDispatcher{DispatchFn: func(context.Context, notification.Message) error {
		t.Fatal("nothing should be dispatched")
		return nil
	}}

	ConsumeNotifications(ctx, reader, dispatcher, zap.NewNop())

	require.Len(t, reader.calls, 4)
	// 20ms, then 40ms twice once the ceiling is reached.
	assert.GreaterOrEqual(t, reader.calls[1].Sub(reader.calls[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, reader.calls[3].Sub(reader.calls[0]), 100*time.Millisecond)
}

func TestConsumeNotifications_FetchBackoffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &failingReader{failures: 1 << 30, cancel: cancel}
	time.AfterFunc(30*time.Millisecond, cancel)

	done := make(chan struct{})
	go func() {
		ConsumeNotifications(ctx, reader, &fakeDispatcher{}, zap.NewNop())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop while backing off")
	}
	// With the default one-second backoff only the first fetch happens.
	assert.Len(t, reader.calls, 1)
}

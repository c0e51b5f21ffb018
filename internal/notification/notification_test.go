package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/events"
	"github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka"
	kafkaMock "github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/notification"
	notificationMock "github.com/Jstali/employee-onboarding-sub000/internal/notification/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func approvedMessage() notification.Message {
	return notification.Message{
		Kind:   notification.KindOnboardingApproved,
		To:     "asha@example.com",
		UserID: "u-1",
		Data:   map[string]string{"name": "Asha"},
	}
}

func TestRender(t *testing.T) {
	t.Run("escapes data", func(t *testing.T) {
		subject, body, err := notification.Render(notification.Message{
			Kind: notification.KindOnboardingRejected,
			To:   "x@example.com",
			Data: map[string]string{"name": "Ravi", "reason": "<script>alert(1)</script>"},
		})

		require.NoError(t, err)
		assert.Equal(t, "Your onboarding application was not approved", subject)
		assert.Contains(t, body, "Hello Ravi")
		assert.NotContains(t, body, "<script>")
		assert.Contains(t, body, "&lt;script&gt;")
	})

	t.Run("credentials", func(t *testing.T) {
		_, body, err := notification.Render(notification.Message{
			Kind: notification.KindAccountCreated,
			To:   "x@example.com",
			Data: map[string]string{"name": "Ravi", "email": "x@example.com", "temporary_password": "Tmp-12345678"},
		})

		require.NoError(t, err)
		assert.Contains(t, body, "Tmp-12345678")
		assert.NotContains(t, body, "Sign in</a>")
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, _, err := notification.Render(notification.Message{Kind: "payslip"})
		assert.Error(t, err)
	})
}

func TestNotifier_Direct(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := notificationMock.NewMockMailer(ctrl)
	n := notification.NewNotifier(config.NotificationDirect, mailer, nil, time.Second)
	ctx := context.Background()

	t.Run("stage is a no-op", func(t *testing.T) {
		assert.NoError(t, n.Stage(ctx, nil, approvedMessage()))
	})

	t.Run("deliver sends mail", func(t *testing.T) {
		mailer.EXPECT().
			Send(gomock.Any(), "asha@example.com", "Your onboarding has been approved", gomock.Any()).
			DoAndReturn(func(ctx context.Context, to, subject, body string) error {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return nil
			})

		n.Deliver(ctx, approvedMessage())
	})

	t.Run("delivery failure is swallowed", func(t *testing.T) {
		mailer.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("connection refused"))

		assert.NotPanics(t, func() { n.Deliver(ctx, approvedMessage()) })
	})

	t.Run("deliver survives cancelled request context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		mailer.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, to, subject, body string) error {
				return ctx.Err()
			})

		n.Deliver(cctx, approvedMessage())
	})
}

func TestNotifier_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := notificationMock.NewMockMailer(ctrl)
	n := notification.NewNotifier(config.NotificationDisabled, mailer, nil, time.Second)

	assert.NoError(t, n.Stage(context.Background(), nil, approvedMessage()))
	n.Deliver(context.Background(), approvedMessage())
}

func TestNotifier_Outbox(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := notificationMock.NewMockMailer(ctrl)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)
	n := notification.NewNotifier(config.NotificationOutbox, mailer, outbox, time.Second)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	ctx := contextutil.WithRequestID(context.Background(), "rid-42")

	outbox.EXPECT().WithTx(tx).Return(outbox)
	outbox.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.NotificationRequestedTopic, e.Topic)
			assert.Equal(t, "rid-42", e.RequestID)
			assert.Equal(t, "u-1", e.AggregateID)
			assert.Equal(t, kafka.OutboxStatusPending, e.Status)

			var payload events.NotificationRequestedEvent
			require.NoError(t, json.Unmarshal(e.Payload, &payload))
			assert.Equal(t, "onboarding_approved", payload.Kind)
			assert.Equal(t, "Asha", payload.Data["name"])
			return nil
		})

	require.NoError(t, n.Stage(ctx, tx, approvedMessage()))

	// delivery happens in the consumer
	n.Deliver(ctx, approvedMessage())
}

func TestDispatcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := notificationMock.NewMockMailer(ctrl)
	d := notification.NewDispatcher(mailer)

	mailer.EXPECT().Send(gomock.Any(), "asha@example.com", gomock.Any(), gomock.Any()).
		Return(errors.New("421 try later"))

	assert.Error(t, d.Dispatch(context.Background(), approvedMessage()))
}

package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/events"
	"github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier splits delivery around the caller's transaction: Stage runs
// inside it, Deliver after commit. Which half does the work depends on the
// configured mode.
//
//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	Stage(ctx context.Context, tx *sql.Tx, msg Message) error
	Deliver(ctx context.Context, msg Message)
}

// Dispatcher renders and sends a message synchronously. The notification
// consumer uses it so that failures are returned instead of swallowed.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
}

type notifier struct {
	mode    string
	mailer  Mailer
	outbox  kafka.OutboxRepository
	timeout time.Duration
	logger  *zap.Logger
}

func NewNotifier(mode string, mailer Mailer, outbox kafka.OutboxRepository, timeout time.Duration, logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notification.notifier")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.notifier")
	}
	if mode == config.NotificationOutbox && outbox == nil {
		l.Warn("outbox notification mode without outbox repository, falling back to direct")
		mode = config.NotificationDirect
	}
	return &notifier{mode: mode, mailer: mailer, outbox: outbox, timeout: timeout, logger: l}
}

func NewDispatcher(mailer Mailer) Dispatcher {
	return &notifier{mode: config.NotificationDirect, mailer: mailer, logger: zap.L().Named("notification.dispatcher")}
}

func (n *notifier) Stage(ctx context.Context, tx *sql.Tx, msg Message) error {
	if n.mode != config.NotificationOutbox {
		return nil
	}
	if !msg.Valid() {
		n.logger.Warn("skipping invalid notification", zap.String("kind", string(msg.Kind)))
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := msg.toEvent()
	event.RequestID = rid
	event.OccurredAt = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	aggregateID := msg.UserID
	if aggregateID == "" {
		aggregateID = uuid.NewString()
	}
	return n.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "user",
		AggregateID:   aggregateID,
		EventType:     events.NotificationRequestedEventType,
		Topic:         events.NotificationRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (n *notifier) Deliver(ctx context.Context, msg Message) {
	switch n.mode {
	case config.NotificationOutbox:
		return
	case config.NotificationDisabled:
		n.logger.Info("notifications disabled, skipping",
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To),
		)
		return
	}

	// the transition has already committed, so it must not inherit the
	// request's cancellation
	sendCtx := context.WithoutCancel(ctx)
	if n.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(sendCtx, n.timeout)
		defer cancel()
	}

	if err := n.Dispatch(sendCtx, msg); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To),
			zap.Error(err),
		)
	}
}

func (n *notifier) Dispatch(ctx context.Context, msg Message) error {
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, msg.To, subject, body)
}

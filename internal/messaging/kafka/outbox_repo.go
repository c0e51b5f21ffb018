package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
	OutboxStatusDead    = "dead"

	// MaxOutboxRetries is the number of failed publishes after which an
	// event is parked as dead and no longer polled.
	MaxOutboxRetries = 10

	maxErrorMessage = 500
)

// OutboxEvent is a notification staged in the same transaction as the
// state change that caused it.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

func (e OutboxEvent) Validate() error {
	switch {
	case e.ID == "":
		return errors.New("outbox id is required")
	case e.Topic == "":
		return errors.New("outbox topic is required")
	case len(e.Payload) == 0:
		return errors.New("outbox payload is required")
	}
	switch e.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed, OutboxStatusDead:
		return nil
	}
	return fmt.Errorf("invalid outbox status: %s", e.Status)
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock
type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

const (
	insertOutboxSQL = `
INSERT INTO outbox_events (id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)`

	// Failed rows become due again once next_retry_at has passed.
	selectDueOutboxSQL = `
SELECT id::text, COALESCE(request_id, ''), aggregate_type, aggregate_id, event_type,
       topic, payload, status, retry_count, COALESCE(next_retry_at, created_at)
FROM outbox_events
WHERE status IN ($1, $2)
  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY created_at
LIMIT $3`

	markSentSQL = `
UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1`

	// Backoff doubles from 5s and is capped at 10 minutes.
	markFailedSQL = `
UPDATE outbox_events
SET status = CASE WHEN retry_count + 1 >= $4 THEN $5 ELSE $2 END,
    retry_count = retry_count + 1,
    error_message = $3,
    next_retry_at = NOW() + LEAST(POWER(2, retry_count) * 5, 600) * INTERVAL '1 second',
    updated_at = NOW()
WHERE id = $1`
)

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

func (r *outboxRepository) conn() execQuerier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *outboxRepository) Create(ctx context.Context, e OutboxEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := r.conn().ExecContext(ctx, insertOutboxSQL,
		e.ID, e.RequestID, e.AggregateType, e.AggregateID, e.EventType, e.Topic, e.Payload, e.Status,
	)
	return err
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.conn().QueryContext(ctx, selectDueOutboxSQL, OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []OutboxEvent
	for rows.Next() {
		e, err := scanOutboxEvent(rows)
		if err != nil {
			return nil, err
		}
		due = append(due, e)
	}
	return due, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.conn().ExecContext(ctx, markSentSQL, id, OutboxStatusSent)
	return err
}

// MarkFailed schedules a retry, or parks the event as dead once it has
// failed MaxOutboxRetries times.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := r.conn().ExecContext(ctx, markFailedSQL,
		id, OutboxStatusFailed, truncateRunes(reason, maxErrorMessage), MaxOutboxRetries, OutboxStatusDead,
	)
	return err
}

func scanOutboxEvent(rows *sql.Rows) (OutboxEvent, error) {
	var e OutboxEvent
	err := rows.Scan(
		&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID, &e.EventType,
		&e.Topic, &e.Payload, &e.Status, &e.RetryCount, &e.NextRetryAt,
	)
	return e, err
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

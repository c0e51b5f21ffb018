package events

import "time"

const NotificationRequestedTopic = "hr.notification.v1"

const NotificationRequestedEventType = "notification_requested"

// NotificationRequestedEvent is relayed from the outbox to the mail consumer.
type NotificationRequestedEvent struct {
	EventType  string            `json:"event_type"`
	RequestID  string            `json:"request_id,omitempty"`
	Kind       string            `json:"kind"`
	To         string            `json:"to"`
	UserID     string            `json:"user_id,omitempty"`
	Data       map[string]string `json:"data"`
	OccurredAt time.Time         `json:"occurred_at"`
}

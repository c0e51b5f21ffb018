// Package notification renders and delivers e-mail notifications. Delivery
// is best-effort in direct mode and at-least-once in outbox mode.
package notification

import (
	"strings"

	"github.com/Jstali/employee-onboarding-sub000/internal/events"
)

type Kind string

const (
	KindAccountCreated     Kind = "account_created"
	KindPasswordReset      Kind = "password_reset"
	KindOnboardingApproved Kind = "onboarding_approved"
	KindOnboardingRejected Kind = "onboarding_rejected"
)

// Message is one e-mail to one recipient. Data feeds the template.
type Message struct {
	Kind   Kind
	To     string
	UserID string
	Data   map[string]string
}

func (m Message) Valid() bool {
	if strings.TrimSpace(m.To) == "" {
		return false
	}
	_, ok := templates[m.Kind]
	return ok
}

func (m Message) toEvent() events.NotificationRequestedEvent {
	return events.NotificationRequestedEvent{
		EventType: events.NotificationRequestedEventType,
		Kind:      string(m.Kind),
		To:        m.To,
		UserID:    m.UserID,
		Data:      m.Data,
	}
}

// FromEvent rebuilds a Message from a relayed outbox event.
func FromEvent(e events.NotificationRequestedEvent) Message {
	return Message{Kind: Kind(e.Kind), To: e.To, UserID: e.UserID, Data: e.Data}
}

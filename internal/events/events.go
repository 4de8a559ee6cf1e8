// Package events defines the notification payloads pushed to the dashboard
// subscriber and the Publisher abstraction that delivers them.
//
// Delivery is best-effort and at-most-once: the event log is the source of
// truth, notifications only wake the UI. A slow or absent subscriber loses
// notifications, never ingestion.
package events

import (
	"context"

	"github.com/groblegark/beacon/internal/model"
)

// Notification topic constants (NATS subjects when the bus is enabled).
const (
	TopicEvent          = "beacon.event"
	TopicSessionDeleted = "beacon.session.deleted"
	TopicEventsCleared  = "beacon.events.cleared"
	TopicServerStatus   = "beacon.server.status"
)

// Notification type tags carried in the wire payload.
const (
	TypeEvent          = "event"
	TypeSessionDeleted = "session_deleted"
	TypeEventsCleared  = "events_cleared"
)

// Notification is the tagged message delivered to the subscriber whenever a
// store-mutating operation occurs. Exactly one of Data/SessionID is set,
// depending on Type; an events_cleared notification carries nothing.
type Notification struct {
	Type      string             `json:"type"`
	Data      *model.StoredEvent `json:"data,omitempty"`
	SessionID string             `json:"sessionId,omitempty"`
}

// Topic returns the subject a notification is published under.
func (n Notification) Topic() string {
	switch n.Type {
	case TypeSessionDeleted:
		return TopicSessionDeleted
	case TypeEventsCleared:
		return TopicEventsCleared
	default:
		return TopicEvent
	}
}

// NewEvent builds the notification for a freshly ingested event.
func NewEvent(ev model.StoredEvent) Notification {
	return Notification{Type: TypeEvent, Data: &ev}
}

// NewSessionDeleted builds the notification for a session deletion.
func NewSessionDeleted(sessionID string) Notification {
	return Notification{Type: TypeSessionDeleted, SessionID: sessionID}
}

// NewEventsCleared builds the notification for a full clear.
func NewEventsCleared() Notification {
	return Notification{Type: TypeEventsCleared}
}

// ServerStatus is announced once, after the HTTP listener is bound, so the
// dashboard learns which port the sidecar landed on.
type ServerStatus struct {
	Status string `json:"status"`
	Port   int    `json:"port"`
}

// Online returns the startup announcement for the given port.
func Online(port int) ServerStatus {
	return ServerStatus{Status: "online", Port: port}
}

// Publisher is the interface for emitting notifications.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

package model

import (
	"encoding/json"
	"time"
)

// EmptyPayload is the payload stored when a producer omits the field.
var EmptyPayload = json.RawMessage(`{}`)

// HookEvent is the wire payload submitted by instrumentation hooks.
// No field is validated beyond JSON well-formedness: producers are
// arbitrary local processes and the dashboard renders whatever arrives.
type HookEvent struct {
	SourceApp     string          `json:"source_app"`
	SessionID     string          `json:"session_id"`
	HookEventType string          `json:"hook_event_type"`
	Timestamp     string          `json:"timestamp"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// StoredEvent is a HookEvent augmented with the server-assigned ID and
// ingestion timestamp, as retained in the log and echoed to the subscriber.
type StoredEvent struct {
	ID            uint64          `json:"id"`
	SourceApp     string          `json:"source_app"`
	SessionID     string          `json:"session_id"`
	HookEventType string          `json:"hook_event_type"`
	Timestamp     string          `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Package store defines the event log interface backing the ingestion API.
package store

import "github.com/groblegark/beacon/internal/model"

// Store is a capacity-bounded, ordered log of hook events with sequential
// ID assignment. Implementations must be safe for concurrent use: the HTTP
// layer calls into a single shared Store from many handler goroutines.
//
// None of the operations return errors: the log is in-memory and every input
// that reaches it has already passed JSON decoding upstream.
type Store interface {
	// Append assigns the next ID, stamps the ingestion time, and appends the
	// event, evicting from the front when the capacity is exceeded. It returns
	// the fully-populated record for echoing to the subscriber.
	Append(ev model.HookEvent) model.StoredEvent

	// Recent returns the newest min(limit, Len()) events in ascending
	// chronological order. The result is always a suffix of the retained log.
	Recent(limit int) []model.StoredEvent

	// DeleteSession removes every event with the given session ID, preserving
	// the relative order of the remainder. It returns the number of events
	// removed; removing zero is not an error.
	DeleteSession(sessionID string) int

	// Clear empties the log and resets the ID counter, starting a new
	// generation whose first event receives ID 1.
	Clear()

	// Len reports the number of retained events.
	Len() int
}

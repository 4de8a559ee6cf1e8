// Package memory provides the in-memory event log.
//
// The log is deliberately not durable: the sidecar exists to feed a live
// dashboard, and a bounded window of recent events is all the UI renders.
// A restart starts a fresh generation with IDs from 1.
package memory

import (
	"sync"
	"time"

	"github.com/groblegark/beacon/internal/model"
)

// DefaultCapacity is the number of events retained before front eviction.
const DefaultCapacity = 1000

// Store is a bounded, ordered event log guarded by a single RWMutex.
// Reads take the shared lock, mutations the exclusive lock; ID assignment
// happens under the exclusive lock so concurrent appends linearize cleanly.
// No lock is ever held across I/O.
type Store struct {
	mu     sync.RWMutex
	events []model.StoredEvent
	nextID uint64
	cap    int

	now func() time.Time // stubbed in tests
}

// New returns an empty store retaining at most capacity events.
// capacity <= 0 selects DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		nextID: 1,
		cap:    capacity,
		now:    time.Now,
	}
}

// Append implements store.Store.
func (s *Store) Append(ev model.HookEvent) model.StoredEvent {
	payload := ev.Payload
	if len(payload) == 0 {
		payload = model.EmptyPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := model.StoredEvent{
		ID:            s.nextID,
		SourceApp:     ev.SourceApp,
		SessionID:     ev.SessionID,
		HookEventType: ev.HookEventType,
		Timestamp:     ev.Timestamp,
		Payload:       payload,
		CreatedAt:     s.now().UTC(),
	}
	s.nextID++

	s.events = append(s.events, stored)
	if len(s.events) > s.cap {
		// Shift the retained suffix down in place so the backing array
		// doesn't grow without bound.
		n := copy(s.events, s.events[len(s.events)-s.cap:])
		s.events = s.events[:n]
	}

	return stored
}

// Recent implements store.Store.
func (s *Store) Recent(limit int) []model.StoredEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.StoredEvent, n)
	copy(out, s.events[len(s.events)-n:])
	return out
}

// DeleteSession implements store.Store.
func (s *Store) DeleteSession(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	for _, ev := range s.events {
		if ev.SessionID != sessionID {
			kept = append(kept, ev)
		}
	}
	removed := len(s.events) - len(kept)
	s.events = kept
	return removed
}

// Clear implements store.Store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.nextID = 1
}

// Len implements store.Store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

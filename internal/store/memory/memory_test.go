package memory

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/groblegark/beacon/internal/model"
)

func event(session, kind string) model.HookEvent {
	return model.HookEvent{
		SourceApp:     "agent1",
		SessionID:     session,
		HookEventType: kind,
		Timestamp:     "2026-01-01T00:00:00Z",
		Payload:       json.RawMessage(`{"tool":"Bash"}`),
	}
}

func TestAppend_AssignsSequentialIDs(t *testing.T) {
	s := New(0)

	for i := 1; i <= 5; i++ {
		stored := s.Append(event("s1", "PreToolUse"))
		if stored.ID != uint64(i) {
			t.Fatalf("expected id=%d, got %d", i, stored.ID)
		}
	}
	if s.Len() != 5 {
		t.Fatalf("expected 5 events, got %d", s.Len())
	}
}

func TestAppend_StampsCreatedAt(t *testing.T) {
	s := New(0)
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	stored := s.Append(event("s1", "Stop"))
	if !stored.CreatedAt.Equal(fixed) {
		t.Fatalf("expected created_at=%v, got %v", fixed, stored.CreatedAt)
	}
}

func TestAppend_DefaultsEmptyPayload(t *testing.T) {
	s := New(0)

	ev := event("s1", "Stop")
	ev.Payload = nil
	stored := s.Append(ev)

	if string(stored.Payload) != `{}` {
		t.Fatalf("expected payload {}, got %q", stored.Payload)
	}
}

func TestAppend_EvictsOldestAtCapacity(t *testing.T) {
	s := New(10)

	for i := 0; i < 25; i++ {
		s.Append(event("s1", "PostToolUse"))
	}

	if s.Len() != 10 {
		t.Fatalf("expected len=10 after overflow, got %d", s.Len())
	}

	got := s.Recent(0)
	for i, ev := range got {
		want := uint64(16 + i) // IDs 16..25 survive
		if ev.ID != want {
			t.Fatalf("expected id=%d at index %d, got %d", want, i, ev.ID)
		}
	}
}

func TestRecent_ReturnsAscendingSuffix(t *testing.T) {
	s := New(0)
	for i := 0; i < 8; i++ {
		s.Append(event("s1", "PreToolUse"))
	}

	got := s.Recent(3)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	for i, ev := range got {
		if want := uint64(6 + i); ev.ID != want {
			t.Fatalf("expected id=%d at index %d, got %d", want, i, ev.ID)
		}
	}
}

func TestRecent_LimitLargerThanLog(t *testing.T) {
	s := New(0)
	s.Append(event("s1", "Stop"))

	if got := s.Recent(500); len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got := s.Recent(0); len(got) != 1 {
		t.Fatalf("expected full log for limit=0, got %d", len(got))
	}
}

func TestRecent_DoesNotAliasInternalSlice(t *testing.T) {
	s := New(0)
	s.Append(event("s1", "Stop"))

	got := s.Recent(0)
	got[0].SessionID = "mutated"

	if s.Recent(0)[0].SessionID != "s1" {
		t.Fatal("Recent returned a view into the internal slice")
	}
}

func TestDeleteSession_RemovesOnlyMatching(t *testing.T) {
	s := New(0)
	s.Append(event("s1", "PreToolUse"))
	s.Append(event("s2", "PreToolUse"))
	s.Append(event("s1", "PostToolUse"))
	s.Append(event("s3", "Stop"))

	if removed := s.DeleteSession("s1"); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	got := s.Recent(0)
	if len(got) != 2 {
		t.Fatalf("expected 2 remaining, got %d", len(got))
	}
	// Relative order of the remainder is preserved.
	if got[0].SessionID != "s2" || got[1].SessionID != "s3" {
		t.Fatalf("unexpected remainder order: %s, %s", got[0].SessionID, got[1].SessionID)
	}
	if got[0].ID != 2 || got[1].ID != 4 {
		t.Fatalf("unexpected remainder ids: %d, %d", got[0].ID, got[1].ID)
	}
}

func TestDeleteSession_NoMatchIsNoop(t *testing.T) {
	s := New(0)
	s.Append(event("s1", "Stop"))

	if removed := s.DeleteSession("nope"); removed != 0 {
		t.Fatalf("expected 0 removed, got %d", removed)
	}
	if s.Len() != 1 {
		t.Fatalf("store changed by no-op delete: len=%d", s.Len())
	}
}

func TestClear_ResetsIDCounter(t *testing.T) {
	s := New(0)
	s.Append(event("s1", "Stop"))
	s.Append(event("s1", "Stop"))

	s.Clear()

	if s.Len() != 0 {
		t.Fatalf("expected empty store, got len=%d", s.Len())
	}
	if stored := s.Append(event("s2", "SessionStart")); stored.ID != 1 {
		t.Fatalf("expected id=1 after clear, got %d", stored.ID)
	}
}

func TestAppend_ConcurrentIDsUnique(t *testing.T) {
	s := New(0)

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s.Append(event(fmt.Sprintf("s%d", w), "PreToolUse"))
			}
		}(w)
	}
	wg.Wait()

	got := s.Recent(0)
	if len(got) != workers*perWorker {
		t.Fatalf("expected %d events, got %d", workers*perWorker, len(got))
	}
	seen := make(map[uint64]bool, len(got))
	for i, ev := range got {
		if seen[ev.ID] {
			t.Fatalf("duplicate id %d", ev.ID)
		}
		seen[ev.ID] = true
		if i > 0 && got[i-1].ID >= ev.ID {
			t.Fatalf("ids not strictly ascending at index %d", i)
		}
	}
	// IDs are exactly {1..N}: no gaps.
	for id := uint64(1); id <= uint64(workers*perWorker); id++ {
		if !seen[id] {
			t.Fatalf("missing id %d", id)
		}
	}
}

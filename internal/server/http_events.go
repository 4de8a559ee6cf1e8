package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/groblegark/beacon/internal/events"
	"github.com/groblegark/beacon/internal/model"
)

// handleIngest handles POST /events.
// Malformed JSON is rejected before the store is touched; anything that
// decodes is accepted as-is — producers are untrusted but harmless, and the
// dashboard renders whatever they report.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var ev model.HookEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	stored := s.store.Append(ev)
	s.notify(r.Context(), events.NewEvent(stored))

	slog.Info("event received",
		"id", stored.ID,
		"hook_event_type", stored.HookEventType,
		"source_app", stored.SourceApp,
		"session_id", stored.SessionID,
	)

	writeJSON(w, http.StatusCreated, stored)
}

// handleRecent handles GET /events/recent.
func (s *Server) handleRecent(w http.ResponseWriter, _ *http.Request) {
	recent := s.store.Recent(s.recentLimit)
	if recent == nil {
		// The dashboard expects a JSON array, never null.
		recent = []model.StoredEvent{}
	}
	writeJSON(w, http.StatusOK, recent)
}

// handleClear handles POST /events/clear. Empties the log and resets the ID
// counter; the next ingested event starts a new generation at ID 1.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	s.notify(r.Context(), events.NewEventsCleared())

	slog.Info("events cleared")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

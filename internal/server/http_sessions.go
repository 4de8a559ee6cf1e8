package server

import (
	"log/slog"
	"net/http"

	"github.com/groblegark/beacon/internal/events"
)

// handleDeleteSession handles DELETE /sessions/{session_id}.
// Sessions are an implicit grouping — deleting one just filters the log.
// Reports success even when nothing matched, so hook cleanup is idempotent.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	removed := s.store.DeleteSession(sessionID)
	s.notify(r.Context(), events.NewSessionDeleted(sessionID))

	slog.Info("session deleted", "session_id", sessionID, "removed", removed)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// The surface is loopback-only and unauthenticated: any local process
// reaching the bound port may ingest, query, delete, or clear.
func (s *Server) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /events", s.handleIngest)
	mux.HandleFunc("GET /events/recent", s.handleRecent)
	mux.HandleFunc("GET /events/stream", s.handleEventStream)
	mux.HandleFunc("POST /events/clear", s.handleClear)
	mux.HandleFunc("DELETE /sessions/{session_id}", s.handleDeleteSession)
	return CORSMiddleware(RecoveryMiddleware(LoggingMiddleware(mux)))
}

// handleHealth handles GET /health. Fixed text body, used as a liveness
// probe by both the hook scripts and the dashboard's port discovery.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/groblegark/beacon/internal/events"
)

const (
	// streamBufferSize bounds how far the subscriber may lag before
	// notifications are dropped. The store remains authoritative; the
	// dashboard re-syncs via GET /events/recent.
	streamBufferSize = 64

	// streamKeepaliveInterval is how often keepalive comments are sent to
	// prevent connection timeouts.
	streamKeepaliveInterval = 15 * time.Second
)

// errStreamBusy is returned when a second subscriber tries to attach.
var errStreamBusy = errors.New("subscriber already attached")

// subscriberStream delivers notifications to the single external subscriber
// over SSE. At most one connection is admitted at a time; pushes while no
// subscriber is attached are dropped silently.
type subscriberStream struct {
	mu       sync.Mutex
	ch       chan events.Notification
	attached bool
	status   *events.ServerStatus // retained for replay on attach
}

func newSubscriberStream() *subscriberStream {
	return &subscriberStream{}
}

// push forwards a notification to the attached subscriber without blocking.
func (st *subscriberStream) push(n events.Notification) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.attached {
		return
	}
	select {
	case st.ch <- n:
	default:
		slog.Warn("subscriber stream full, dropping notification", "type", n.Type)
	}
}

// setStatus retains the startup announcement for replay.
func (st *subscriberStream) setStatus(s events.ServerStatus) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.status = &s
}

// attach claims the subscriber slot. The returned detach function releases it.
func (st *subscriberStream) attach() (<-chan events.Notification, *events.ServerStatus, func(), error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.attached {
		return nil, nil, nil, errStreamBusy
	}
	ch := make(chan events.Notification, streamBufferSize)
	st.ch = ch
	st.attached = true

	detach := func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		st.attached = false
		st.ch = nil
	}
	return ch, st.status, detach, nil
}

// handleEventStream handles GET /events/stream (SSE endpoint for the
// dashboard shell). A second concurrent connection gets 409.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ch, status, detach, err := s.stream.attach()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	defer detach()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Replay the startup announcement so a late-attaching dashboard still
	// learns the selected port.
	if status != nil {
		writeSSEEvent(w, "server-status", status)
		flusher.Flush()
	}

	ctx := r.Context()
	keepalive := time.NewTicker(streamKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-ch:
			writeSSEEvent(w, n.Type, n)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprintf(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes a single SSE event to the writer.
func writeSSEEvent(w http.ResponseWriter, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("failed to marshal SSE payload", "event", name, "error", err)
		return
	}
	fmt.Fprintf(w, "event:%s\n", name)
	fmt.Fprintf(w, "data:%s\n\n", data)
}

package server

import (
	"context"
	"log/slog"

	"github.com/groblegark/beacon/internal/events"
	"github.com/groblegark/beacon/internal/store"
)

// Server owns the event log and pushes notifications to the dashboard
// subscriber. It is constructed once at startup and shared by every handler.
type Server struct {
	store       store.Store
	publisher   events.Publisher
	stream      *subscriberStream
	recentLimit int
}

// New returns a Server backed by the given store and publisher. recentLimit
// caps GET /events/recent responses; <= 0 selects the default of 500.
func New(s store.Store, p events.Publisher, recentLimit int) *Server {
	if recentLimit <= 0 {
		recentLimit = 500
	}
	return &Server{
		store:       s,
		publisher:   p,
		stream:      newSubscriberStream(),
		recentLimit: recentLimit,
	}
}

// AnnounceOnline publishes the one-time startup notification after the HTTP
// listener is bound, and retains it for replay when the SSE subscriber
// attaches later.
func (s *Server) AnnounceOnline(ctx context.Context, port int) {
	status := events.Online(port)
	if err := s.publisher.Publish(ctx, events.TopicServerStatus, status); err != nil {
		slog.Warn("failed to publish server status", "port", port, "error", err)
	}
	s.stream.setStatus(status)
}

// notify delivers a notification to the subscriber over every attached
// transport. Best-effort: failures are logged and never reach the HTTP
// caller, since the authoritative store mutation already succeeded.
func (s *Server) notify(ctx context.Context, n events.Notification) {
	if err := s.publisher.Publish(ctx, n.Topic(), n); err != nil {
		slog.Warn("failed to publish notification", "topic", n.Topic(), "error", err)
	}
	s.stream.push(n)
}

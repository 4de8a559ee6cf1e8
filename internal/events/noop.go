package events

import "context"

// NoopPublisher is a Publisher that does nothing (used when NATS is not
// configured; the SSE stream still serves the subscriber).
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}

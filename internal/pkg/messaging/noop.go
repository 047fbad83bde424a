package messaging

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/atomic"
)

// Noop drops every message after logging it at debug level.
type Noop struct {
	dropped *atomic.Int64
}

// NewNoop constructs a Noop publisher.
func NewNoop() *Noop {
	return &Noop{dropped: atomic.NewInt64(0)}
}

// Publish logs the destination and returns immediately.
func (n *Noop) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}

	total := n.dropped.Inc()
	slog.DebugContext(ctx, "messaging noop publish", "destination", destination, "size", len(msg.Body), "dropped", total)

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

// Dropped reports how many messages were discarded.
func (n *Noop) Dropped() int64 {
	return n.dropped.Load()
}

// Close implements io.Closer.
func (*Noop) Close() error {
	return nil
}

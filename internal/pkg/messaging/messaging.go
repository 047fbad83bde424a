package messaging

import (
	"context"
	"errors"
	"io"
	"maps"
	"sync"
	"time"
)

// ErrDestinationRequired is returned when Publish is called without a destination.
var ErrDestinationRequired = errors.New("messaging: destination is required")

// Messaging is a Publisher that owns a broker connection.
type Messaging interface {
	io.Closer
	Publisher
}

// Publisher publishes messages to a destination (topic or subject).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage is the broker-agnostic envelope. Drivers map the fields
// their broker supports and ignore the rest.
type OutgoingMessage struct {
	Body []byte
	// Key picks the Kafka partition.
	Key     []byte
	Headers []Header
	// Attributes are string metadata for Pub/Sub.
	Attributes map[string]string
	// OrderingKey is honoured by Pub/Sub only.
	OrderingKey string
}

// Header is a binary message header. Duplicate keys are allowed.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries what the broker reported back. MessageID is empty
// for brokers that do not assign one.
type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

// precheck holds the argument checks every driver runs before touching the broker.
func precheck(ctx context.Context, destination string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}
	return nil
}

// lifecycle tracks whether a driver has been closed.
type lifecycle struct {
	mu     sync.Mutex
	closed bool
}

// shut marks the driver closed and reports whether this call did it.
func (l *lifecycle) shut() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	l.closed = true
	return true
}

func (l *lifecycle) open() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return io.ErrClosedPipe
	}
	return nil
}

// attributes folds non-empty headers into a copy of the attribute map for
// brokers that only carry string metadata.
func attributes(msg OutgoingMessage) map[string]string {
	if len(msg.Headers) == 0 {
		return msg.Attributes
	}

	out := make(map[string]string, len(msg.Attributes)+len(msg.Headers))
	maps.Copy(out, msg.Attributes)
	for _, h := range msg.Headers {
		if h.Key != "" {
			out[h.Key] = string(h.Value)
		}
	}
	return out
}

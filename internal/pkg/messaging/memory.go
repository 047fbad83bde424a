package messaging

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"
)

// Published is a message captured by Memory.
type Published struct {
	Destination string
	Message     OutgoingMessage
	Timestamp   time.Time
}

// Memory keeps every published message in process. It is safe for
// concurrent use.
type Memory struct {
	mu       sync.Mutex
	messages []Published
	closed   bool
}

// NewMemory constructs an empty Memory publisher.
func NewMemory() *Memory {
	return &Memory{}
}

// Publish stores a copy of msg.
func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return PublishResult{}, io.ErrClosedPipe
	}

	now := time.Now()
	msg.Body = append([]byte(nil), msg.Body...)
	m.messages = append(m.messages, Published{Destination: destination, Message: msg, Timestamp: now})

	return PublishResult{
		MessageID: strconv.Itoa(len(m.messages)),
		Topic:     destination,
		Timestamp: now,
	}, nil
}

// Messages returns the captured messages for destination, or all of them
// when destination is empty.
func (m *Memory) Messages(destination string) []Published {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Published, 0, len(m.messages))
	for _, p := range m.messages {
		if destination == "" || p.Destination == destination {
			out = append(out, p)
		}
	}

	return out
}

// Close rejects further publishes.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

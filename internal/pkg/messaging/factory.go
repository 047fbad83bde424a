package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver names accepted by NewFromDriver.
const (
	DriverNoop         = "noop"
	DriverMemory       = "memory"
	DriverNSQ          = "nsq"
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverGooglePubSub = "google-pubsub"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions carries the per-driver config. Only the selected driver's
// section is read.
type FactoryOptions struct {
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

type constructor func(ctx context.Context, opts FactoryOptions) (Messaging, error)

var drivers = map[string]constructor{
	DriverNoop:   func(context.Context, FactoryOptions) (Messaging, error) { return NewNoop(), nil },
	DriverMemory: func(context.Context, FactoryOptions) (Messaging, error) { return NewMemory(), nil },
	DriverNSQ: func(_ context.Context, o FactoryOptions) (Messaging, error) {
		m, err := NewNSQ(o.NSQ)
		return client(m, err)
	},
	DriverNATS: func(_ context.Context, o FactoryOptions) (Messaging, error) {
		m, err := NewNATS(o.NATS)
		return client(m, err)
	},
	DriverKafka: func(_ context.Context, o FactoryOptions) (Messaging, error) {
		m, err := NewKafka(o.Kafka)
		return client(m, err)
	},
	DriverGooglePubSub: func(ctx context.Context, o FactoryOptions) (Messaging, error) {
		m, err := NewPubSub(ctx, o.PubSub)
		return client(m, err)
	},
}

// client keeps a failed constructor from leaking a typed nil into the interface.
func client[T Messaging](m T, err error) (Messaging, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewFromDriver builds the Messaging client named by driver. An empty name
// selects DriverNoop.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Messaging, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if name == "" {
		name = DriverNoop
	}

	build, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	return build(ctx, opts)
}

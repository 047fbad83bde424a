package messaging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka driver.
type KafkaConfig struct {
	Brokers      []string
	BatchTimeout time.Duration
	RequiredAcks kafka.RequiredAcks
}

// Kafka keeps one writer per topic, created on first use.
type Kafka struct {
	lifecycle
	cfg     KafkaConfig
	writers sync.Map // topic -> *kafka.Writer
}

// NewKafka validates cfg. No broker connection is made until the first publish.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}
	cfg.Brokers = slices.Clone(cfg.Brokers)

	return &Kafka{cfg: cfg}, nil
}

// Publish writes one message keyed by msg.Key.
func (k *Kafka) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := precheck(ctx, destination); err != nil {
		return PublishResult{}, err
	}
	if err := k.open(); err != nil {
		return PublishResult{}, err
	}

	out := kafka.Message{Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for _, h := range msg.Headers {
		if h.Key != "" {
			out.Headers = append(out.Headers, kafka.Header{Key: h.Key, Value: h.Value})
		}
	}

	if err := k.writer(destination).WriteMessages(ctx, out); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: kafka publish %s: %w", destination, err)
	}
	return PublishResult{Topic: destination, Timestamp: out.Time}, nil
}

func (k *Kafka) writer(topic string) *kafka.Writer {
	if w, ok := k.writers.Load(topic); ok {
		return w.(*kafka.Writer)
	}

	w, _ := k.writers.LoadOrStore(topic, &kafka.Writer{
		Addr:         kafka.TCP(k.cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: k.cfg.BatchTimeout,
		RequiredAcks: k.cfg.RequiredAcks,
	})
	return w.(*kafka.Writer)
}

// Close flushes and closes every writer.
func (k *Kafka) Close() error {
	if !k.shut() {
		return nil
	}

	var errs []error
	k.writers.Range(func(_, v any) bool {
		errs = append(errs, v.(*kafka.Writer).Close())
		return true
	})
	return errors.Join(errs...)
}

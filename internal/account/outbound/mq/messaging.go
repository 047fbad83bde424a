package mq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/migorithm/authotp/internal/account/usecase"
	"github.com/migorithm/authotp/internal/pkg/instrument"
	"github.com/migorithm/authotp/internal/pkg/messaging"
	"github.com/migorithm/authotp/internal/shared/event"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"
)

const (
	keyOfCorrelationID string = "cID"

	publishMaxRetries = 2
	publishBaseDelay  = 50 * time.Millisecond
	publishMaxDelay   = time.Second
)

type Messaging struct {
	client  messaging.Publisher
	ins     instrument.Instrumentation
	backoff func() retry.Backoff
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{
		client: client,
		ins:    ins,
		backoff: func() retry.Backoff {
			b := retry.NewFibonacci(publishBaseDelay)
			b = retry.WithMaxRetries(publishMaxRetries, b)
			return retry.WithCappedDuration(publishMaxDelay, b)
		},
	}
}

func (m *Messaging) PublishAccountRegistered(ctx context.Context, msg usecase.AccountRegisteredEvent) error {
	return m.publish(ctx, "PublishAccountRegistered", event.AccountRegisteredDestination, msg.AccountID, event.AccountRegisteredMessage{
		AccountID:    msg.AccountID,
		Email:        msg.Email,
		Name:         msg.Name,
		RegisteredAt: msg.At,
	})
}

func (m *Messaging) PublishMFAEnabled(ctx context.Context, msg usecase.MFAChangedEvent) error {
	return m.publish(ctx, "PublishMFAEnabled", event.AccountMFAEnabledDestination, msg.AccountID, event.AccountMFAEnabledMessage{
		AccountID: msg.AccountID,
		EnabledAt: msg.At,
	})
}

func (m *Messaging) PublishMFADisabled(ctx context.Context, msg usecase.MFAChangedEvent) error {
	return m.publish(ctx, "PublishMFADisabled", event.AccountMFADisabledDestination, msg.AccountID, event.AccountMFADisabledMessage{
		AccountID:  msg.AccountID,
		DisabledAt: msg.At,
	})
}

// publish keys every message by account id so brokers that partition keep
// one account's events in order.
func (m *Messaging) publish(ctx context.Context, name, destination, key string, payload any) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, name)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	msg := messaging.OutgoingMessage{
		Body:        body,
		Key:         []byte(key),
		OrderingKey: key,
		Headers:     []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}

	err = retry.Do(ctx, m.backoff(), func(ctx context.Context) error {
		_, err := m.client.Publish(ctx, destination, msg)
		if err != nil && !permanent(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func permanent(err error) bool {
	return errors.Is(err, messaging.ErrDestinationRequired) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

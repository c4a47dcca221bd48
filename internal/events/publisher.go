package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// ErrNacked is returned when the broker negatively acknowledges a message.
var ErrNacked = errors.New("broker nacked message")

// Publisher sends envelopes to a message broker.
type Publisher interface {
	Publish(ctx context.Context, key string, msg Envelope) error
	Close() error
}

// confirmation is the broker's answer to one published message.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// publishChannel is the part of an AMQP channel the publisher uses.
type publishChannel interface {
	Confirm(noWait bool) error
	publish(ctx context.Context, exchange, key string, msg amqp091.Publishing) (confirmation, error)
	Close() error
}

type amqpChannel struct {
	*amqp091.Channel
}

func (c amqpChannel) publish(ctx context.Context, exchange, key string, msg amqp091.Publishing) (confirmation, error) {
	dc, err := c.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	return dc, nil
}

type rmqPublisher struct {
	open     func() (publishChannel, error)
	close    func() error
	exchange string
	log      *slog.Logger
}

// NewPublisher connects to RabbitMQ at url and declares a durable topic
// exchange.
func NewPublisher(url, exchange string, logger *slog.Logger) (Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &rmqPublisher{
		open: func() (publishChannel, error) {
			ch, err := conn.Channel()
			if err != nil {
				return nil, err
			}
			return amqpChannel{ch}, nil
		},
		close:    conn.Close,
		exchange: exchange,
		log:      logger.With("component", "events_publisher"),
	}, nil
}

// Publish sends msg with routing key key and waits for the broker confirm.
func (p *rmqPublisher) Publish(ctx context.Context, key string, msg Envelope) error {
	ch, err := p.open()
	if err != nil {
		return fmt.Errorf("open amqp channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("enable publisher confirms: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	cid := msg.Meta.ID
	if msg.Meta.CorrelationID != nil {
		cid = *msg.Meta.CorrelationID
	}

	confirm, err := ch.publish(ctx, p.exchange, key, amqp091.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp091.Persistent,
		MessageId:     msg.Meta.ID,
		CorrelationId: cid,
		Timestamp:     time.Now(),
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("wait for confirm of %s: %w", key, err)
	}
	if !acked {
		return fmt.Errorf("%w: %s", ErrNacked, key)
	}

	p.log.InfoContext(ctx, "published", slog.String("key", key), slog.String("exchange", p.exchange))
	return nil
}

func (p *rmqPublisher) Close() error {
	return p.close()
}

func newEnvelope(eventType string, payload MembershipPayload) Envelope {
	return Envelope{
		Meta: Meta{
			ID:         uuid.NewString(),
			Type:       eventType,
			OccurredAt: time.Now().UTC(),
		},
		Payload: payload,
	}
}

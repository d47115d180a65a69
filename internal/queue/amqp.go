package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"filehub/internal/config"
)

// amqpEnqueuer publishes ingestion jobs to a durable AMQP queue through a
// single connection and channel created at startup and injected where needed.
type amqpEnqueuer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewAMQP connects to the broker and declares the durable work queue.
// The returned Enqueuer owns the connection; Close releases it.
func NewAMQP(cfg config.QueueConfig) (Enqueuer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("amqp url is required")
	}
	if cfg.QueueName == "" {
		return nil, fmt.Errorf("queue name is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", cfg.QueueName, err)
	}

	return &amqpEnqueuer{conn: conn, channel: ch, queue: cfg.QueueName}, nil
}

// Enqueue publishes one persistent JSON message to the work queue via the
// default exchange.
func (e *amqpEnqueuer) Enqueue(ctx context.Context, job IngestJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return e.channel.PublishWithContext(ctx, "", e.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (e *amqpEnqueuer) Close() error {
	if e.channel != nil {
		_ = e.channel.Close()
	}
	if e.conn != nil {
		return e.conn.Close()
	}
	return nil
}

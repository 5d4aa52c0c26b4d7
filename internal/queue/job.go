// Package queue carries notification jobs between the order-creating services
// and the dispatch worker. Kafka is the default transport; an SQS consumer is
// available behind QUEUE_BACKEND=sqs. Delivery guarantees (at-least-once,
// retry/backoff) come from the transport configuration.
package queue

import (
	"context"

	"github.com/google/uuid"
)

// NotificationJob is the payload handed to the dispatch worker.
type NotificationJob struct {
	Event       string            `json:"event"`
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Channel     string            `json:"channel"`
	Recipient   string            `json:"recipient"`
	Data        map[string]string `json:"data,omitempty"`
}

// Producer publishes notification jobs.
type Producer interface {
	Publish(ctx context.Context, job NotificationJob) error
	Close() error
}

// Handler processes one job; returning an error leaves the message for the
// transport to redeliver.
type Handler func(ctx context.Context, job NotificationJob) error

// Consumer pulls jobs and feeds them to a Handler until the context ends.
type Consumer interface {
	Start(ctx context.Context, handler Handler)
}

package queue

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaProducer writes notification jobs to a topic, keyed by order number so
// per-order messages stay in partition order.
type KafkaProducer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaProducer(brokers []string, topic string, logger *zap.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{writer: writer, logger: logger}
}

func (p *KafkaProducer) Publish(ctx context.Context, job NotificationJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(job.OrderNumber),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish notification job",
			zap.String("order_number", job.OrderNumber),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// KafkaConsumer reads notification jobs with a consumer group. Offsets commit
// after the handler succeeds, so a crashed worker replays unprocessed jobs.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *zap.Logger
}

func NewKafkaConsumer(brokers []string, topic, groupID string, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})
	return &KafkaConsumer{reader: reader, logger: logger}
}

func (c *KafkaConsumer) Start(ctx context.Context, handler Handler) {
	c.logger.Info("kafka consumer started", zap.String("topic", c.reader.Config().Topic))
	defer c.reader.Close()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("kafka consumer shutting down")
				return
			}
			c.logger.Error("failed to fetch message", zap.Error(err))
			continue
		}

		var job NotificationJob
		if err := json.Unmarshal(m.Value, &job); err != nil {
			c.logger.Error("invalid notification job, skipping", zap.Error(err))
			_ = c.reader.CommitMessages(ctx, m)
			continue
		}

		if err := handler(ctx, job); err != nil {
			c.logger.Error("failed to process notification job",
				zap.String("event", job.Event),
				zap.String("order_number", job.OrderNumber),
				zap.Error(err),
			)
			// no commit; the group redelivers after rebalance/restart
			continue
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("failed to commit offset", zap.Error(err))
		}
	}
}

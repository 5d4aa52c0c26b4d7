package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// SQSConsumer is the alternative transport for deployments already running on
// SQS. Messages delete only after the handler succeeds; failures retry after
// the visibility timeout, and the queue's redrive policy supplies the retry
// count and DLQ.
type SQSConsumer struct {
	client   *sqs.Client
	queueURL string
	logger   *zap.Logger
}

func NewSQSConsumer(ctx context.Context, queueURL string, logger *zap.Logger) (*SQSConsumer, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &SQSConsumer{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
		logger:   logger,
	}, nil
}

func (c *SQSConsumer) Start(ctx context.Context, handler Handler) {
	c.logger.Info("sqs consumer started", zap.String("queue", c.queueURL))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("sqs consumer shutting down")
			return
		default:
			c.poll(ctx, handler)
		}
	}
}

func (c *SQSConsumer) poll(ctx context.Context, handler Handler) {
	output, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     5, // long polling
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logger.Error("sqs receive error", zap.Error(err))
		time.Sleep(5 * time.Second)
		return
	}

	for _, msg := range output.Messages {
		if msg.Body == nil || *msg.Body == "" {
			c.logger.Error("received empty SQS message body")
			continue
		}

		var job NotificationJob
		if err := json.Unmarshal([]byte(*msg.Body), &job); err != nil {
			c.logger.Error("unparseable notification job", zap.Error(err))
			c.deleteMessage(ctx, msg.ReceiptHandle) // delete to avoid an infinite loop
			continue
		}

		if err := handler(ctx, job); err != nil {
			c.logger.Error("failed to process notification job",
				zap.String("event", job.Event),
				zap.Error(err),
			)
			continue // redelivered after visibility timeout
		}

		c.deleteMessage(ctx, msg.ReceiptHandle)
	}
}

func (c *SQSConsumer) deleteMessage(ctx context.Context, receiptHandle *string) {
	if receiptHandle == nil {
		return
	}
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		c.logger.Error("failed to delete SQS message", zap.Error(err))
	}
}

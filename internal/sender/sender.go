package sender

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}

// MessageSender covers SMS and WhatsApp; the channel picks the transport
// prefix.
type MessageSender interface {
	SendSMS(ctx context.Context, to, msg string) (SendResult, error)
	SendWhatsApp(ctx context.Context, to, msg string) (SendResult, error)
}

package sender

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of a provider. It stands in
// for Twilio/SMTP when no credentials are configured, so development and the
// demo environment still see full dispatch behavior.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) send(channel, to, body string) (SendResult, error) {
	s.logger.Info("simulated send",
		zap.String("channel", channel),
		zap.String("to", to),
		zap.String("body", body),
	)
	return SendResult{
		MessageID: fmt.Sprintf("log_%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

func (s *LogSender) SendSMS(ctx context.Context, to, body string) (SendResult, error) {
	return s.send("sms", to, body)
}

func (s *LogSender) SendWhatsApp(ctx context.Context, to, body string) (SendResult, error) {
	return s.send("whatsapp", to, body)
}

func (s *LogSender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	return s.send("email", to, subject+": "+body)
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/queue"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
	"github.com/serdchef/coskunyayci-backend/internal/sender"
)

var messageTemplates = map[string]*template.Template{
	models.EventOrderCreated: template.Must(template.New("order_created").Parse(
		"Coşkunyaycı: your order {{.order_number}} has been received. Total: ₺{{.total}}. Track it at coskunyayci.com/track/{{.order_number}}")),
	models.EventOrderConfirmed: template.Must(template.New("order_confirmed").Parse(
		"Coşkunyaycı: order {{.order_number}} is confirmed and heading to the oven.")),
	models.EventOrderShipped: template.Must(template.New("order_shipped").Parse(
		"Coşkunyaycı: order {{.order_number}} is on its way!")),
	models.EventOrderDelivered: template.Must(template.New("order_delivered").Parse(
		"Coşkunyaycı: order {{.order_number}} has been delivered. Afiyet olsun!")),
	models.EventPaymentFailed: template.Must(template.New("payment_failed").Parse(
		"Coşkunyaycı: payment for order {{.order_number}} failed. Please try again.")),
}

// NotificationService renders and delivers queued notification jobs, logging
// every outcome. Retries are bounded by maxAttempts with linear backoff; the
// queue redelivers on top of that per its own configuration.
type NotificationService struct {
	repo        repository.NotificationRepository
	messages    sender.MessageSender
	email       sender.EmailSender
	maxAttempts int
	logger      *zap.Logger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	messages sender.MessageSender,
	email sender.EmailSender,
	maxAttempts int,
	logger *zap.Logger,
) *NotificationService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &NotificationService{
		repo:        repo,
		messages:    messages,
		email:       email,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// ProcessJob handles one queued job. The returned error tells the consumer
// whether to redeliver; rendering failures are terminal and logged as failed
// instead of retried forever.
func (s *NotificationService) ProcessJob(ctx context.Context, job queue.NotificationJob) error {
	body, err := s.render(job)
	if err != nil {
		s.logger.Error("template render failed", zap.String("event", job.Event), zap.Error(err))
		s.saveLog(ctx, &job, "", models.NotifyFailed, err.Error(), 0)
		return nil
	}

	sendErr, attempts := s.sendWithRetry(ctx, job.Channel, job.Recipient, body)

	status := models.NotifySent
	errMsg := ""
	if sendErr != nil {
		status = models.NotifyFailed
		errMsg = sendErr.Error()
	}
	s.saveLog(ctx, &job, body, status, errMsg, attempts)

	s.logger.Info("notification processed",
		zap.String("event", job.Event),
		zap.String("channel", job.Channel),
		zap.String("status", status),
		zap.Int("attempts", attempts),
	)
	return sendErr
}

// SimulateSend backs POST /api/notifications: it dispatches inline and
// records the log row, bypassing the queue.
func (s *NotificationService) SimulateSend(ctx context.Context, job queue.NotificationJob) (*models.NotificationLog, *ServiceError) {
	if job.Recipient == "" || job.Channel == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "channel and recipient required"}
	}
	if _, ok := messageTemplates[job.Event]; !ok {
		return nil, &ServiceError{StatusCode: 400, Message: "unknown event type"}
	}

	body, err := s.render(job)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to render message"}
	}

	sendErr, attempts := s.sendWithRetry(ctx, job.Channel, job.Recipient, body)

	status := models.NotifySent
	errMsg := ""
	if sendErr != nil {
		status = models.NotifyFailed
		errMsg = sendErr.Error()
	}
	log := s.saveLog(ctx, &job, body, status, errMsg, attempts)
	return log, nil
}

func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, *ServiceError) {
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list notification logs", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list notifications"}
	}
	return logs, total, nil
}

func (s *NotificationService) render(job queue.NotificationJob) (string, error) {
	tmpl, ok := messageTemplates[job.Event]
	if !ok {
		return "", fmt.Errorf("unsupported event type: %s", job.Event)
	}

	data := map[string]string{"order_number": job.OrderNumber}
	for k, v := range job.Data {
		data[k] = v
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template render failed: %w", err)
	}
	return buf.String(), nil
}

func (s *NotificationService) sendWithRetry(ctx context.Context, channel, to, body string) (error, int) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err(), attempts
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		attempts++

		switch channel {
		case models.ChannelSMS:
			_, lastErr = s.messages.SendSMS(ctx, to, body)
		case models.ChannelWhatsApp:
			_, lastErr = s.messages.SendWhatsApp(ctx, to, body)
		case models.ChannelEmail:
			_, lastErr = s.email.SendEmail(ctx, to, "Coşkunyaycı Baklava", body)
		default:
			return fmt.Errorf("unsupported channel: %s", channel), attempts
		}

		if lastErr == nil {
			return nil, attempts
		}

		s.logger.Warn("send attempt failed",
			zap.String("channel", channel),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}
	return lastErr, attempts
}

func (s *NotificationService) saveLog(ctx context.Context, job *queue.NotificationJob, body, status, errMsg string, attempts int) *models.NotificationLog {
	entry := &models.NotificationLog{
		Event:      job.Event,
		Channel:    job.Channel,
		Recipient:  job.Recipient,
		Body:       body,
		Status:     status,
		Error:      errMsg,
		RetryCount: attempts - 1,
	}
	if job.OrderID != uuid.Nil {
		id := job.OrderID
		entry.OrderID = &id
	}
	if entry.RetryCount < 0 {
		entry.RetryCount = 0
	}

	if err := s.repo.Save(ctx, entry); err != nil {
		s.logger.Error("failed to save notification log", zap.Error(err))
	}
	return entry
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/serdchef/coskunyayci-backend/internal/config"
	"github.com/serdchef/coskunyayci-backend/internal/database"
	"github.com/serdchef/coskunyayci-backend/internal/logger"
	"github.com/serdchef/coskunyayci-backend/internal/queue"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
	"github.com/serdchef/coskunyayci-backend/internal/sender"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

// The notifier consumes queued notification jobs and dispatches them over
// SMS, WhatsApp or email. It also serves a health endpoint so the container
// orchestrator can probe it.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogBackend)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	db, err := database.ConnectPostgres(cfg, log)
	if err != nil {
		log.Fatal("postgres connection failed", zap.Error(err))
	}

	notificationRepo := repository.NewNotificationRepository(db)
	notificationService := services.NewNotificationService(
		notificationRepo, messageSender(cfg, log), emailSender(cfg, log), cfg.NotifyMaxAttempts, log,
	)

	consumer, err := buildConsumer(cfg, log)
	if err != nil {
		log.Fatal("consumer init failed", zap.Error(err))
	}

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	go consumer.Start(consumerCtx, notificationService.ProcessJob)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "notifier"})
	})

	srv := &http.Server{Addr: ":" + cfg.NotifierPort, Handler: router}
	go func() {
		log.Info("notifier started",
			zap.String("port", cfg.NotifierPort),
			zap.String("queue_backend", cfg.QueueBackend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("initiating graceful shutdown")
	consumerCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("database close error", zap.Error(err))
	}

	log.Info("notifier stopped")
}

func buildConsumer(cfg config.Config, log *zap.Logger) (queue.Consumer, error) {
	if cfg.QueueBackend == "sqs" {
		return queue.NewSQSConsumer(context.Background(), cfg.SQSQueueURL, log)
	}
	return queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, log), nil
}

func messageSender(cfg config.Config, log *zap.Logger) sender.MessageSender {
	s, err := sender.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	if err != nil {
		log.Warn("twilio not configured, using log sender", zap.Error(err))
		return sender.NewLogSender(log)
	}
	return s
}

func emailSender(cfg config.Config, log *zap.Logger) sender.EmailSender {
	s, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	if err != nil {
		log.Warn("smtp not configured, using log sender", zap.Error(err))
		return sender.NewLogSender(log)
	}
	return s
}

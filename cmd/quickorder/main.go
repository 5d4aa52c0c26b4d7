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
	"github.com/serdchef/coskunyayci-backend/internal/controllers"
	"github.com/serdchef/coskunyayci-backend/internal/database"
	"github.com/serdchef/coskunyayci-backend/internal/logger"
	"github.com/serdchef/coskunyayci-backend/internal/middleware"
	"github.com/serdchef/coskunyayci-backend/internal/queue"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

// The quick-order service is deliberately tiny: one endpoint, API-key
// guarded, rate limited, CORS-open to the embedding site. It shares the
// database and queue with the main API but deploys and scales on its own.
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

	producer := queue.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	defer producer.Close()

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderService := services.NewOrderService(orderRepo, productRepo, producer, log)
	quickService := services.NewQuickOrderService(orderService, log)
	controller := controllers.NewQuickOrderController(quickService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(log))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.AllowedOrigin))

	router.GET("/health", controller.Health)
	router.POST("/quick-order",
		middleware.APIKey(cfg.QuickOrderAPIKey),
		middleware.QuickOrderRateLimit(cfg.QuickRateLimit, cfg.QuickRateWindow),
		controller.Create,
	)

	srv := &http.Server{Addr: ":" + cfg.QuickPort, Handler: router}
	go func() {
		log.Info("quick-order service started", zap.String("port", cfg.QuickPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("database close error", zap.Error(err))
	}

	log.Info("quick-order service stopped")
}

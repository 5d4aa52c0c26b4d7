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

	oidcauth "github.com/serdchef/coskunyayci-backend/internal/auth"
	"github.com/serdchef/coskunyayci-backend/internal/config"
	"github.com/serdchef/coskunyayci-backend/internal/controllers"
	"github.com/serdchef/coskunyayci-backend/internal/database"
	"github.com/serdchef/coskunyayci-backend/internal/logger"
	"github.com/serdchef/coskunyayci-backend/internal/middleware"
	"github.com/serdchef/coskunyayci-backend/internal/queue"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
	"github.com/serdchef/coskunyayci-backend/internal/routes"
	"github.com/serdchef/coskunyayci-backend/internal/sender"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogBackend)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	db, err := database.ConnectPostgres(cfg, log, database.StorefrontModels()...)
	if err != nil {
		log.Fatal("postgres connection failed", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	producer := queue.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	defer producer.Close()

	// Repositories
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	cartRepo := repository.NewCartRepository(redisClient, cfg.CartTTL)
	chatRepo := repository.NewChatSessionRepository(redisClient, cfg.ChatTTL)
	productCache := repository.NewProductCache(redisClient, cfg.CacheTTL, log)

	// Services
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := services.NewAuthService(userRepo, tokens, log)
	productService := services.NewProductService(productRepo, productCache, log)
	orderService := services.NewOrderService(orderRepo, productRepo, producer, log)
	paymentService := services.NewPaymentService(cfg.PaymentMode, cfg.StripeSecretKey, log)
	checkoutService := services.NewCheckoutService(cartRepo, orderService, paymentService, log)
	b2bService := services.NewB2BService(productRepo, orderService, log)
	chatbotService := services.NewChatbotService(chatRepo, productService, orderService, log)
	notificationService := services.NewNotificationService(
		notificationRepo, messageSender(cfg, log), emailSender(cfg, log), cfg.NotifyMaxAttempts, log,
	)

	oidcHandler, err := oidcauth.NewOIDCHandler(context.Background(), cfg, userRepo, tokens, log)
	if err != nil {
		log.Fatal("oidc provider init failed", zap.Error(err))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(log))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(getAllowedOrigins()))
	router.Use(requestTimeout(30 * time.Second))

	routes.Register(router, routes.Deps{
		Tokens:        tokens,
		SessionSecret: cfg.SessionSecret,
		Auth:          controllers.NewAuthController(authService),
		OIDC:          oidcHandler,
		Products:      controllers.NewProductController(productService),
		Cart:          controllers.NewCartController(cartRepo, productService, log),
		Checkout:      controllers.NewCheckoutController(checkoutService),
		Orders:        controllers.NewOrderController(orderService),
		B2B:           controllers.NewB2BController(b2bService),
		Chatbot:       controllers.NewChatbotController(chatbotService),
		Addresses:     controllers.NewAddressController(userRepo, log),
		Notifications: controllers.NewNotificationController(notificationService),
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Info("storefront api started", zap.String("port", cfg.Port))
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
	if err := redisClient.Close(); err != nil {
		log.Error("redis close error", zap.Error(err))
	}

	log.Info("storefront api stopped")
}

func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func getAllowedOrigins() string {
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		return v
	}
	return "*"
}

// messageSender falls back to log-only dispatch when Twilio is not configured.
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

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment.
// Each binary uses the subset it cares about.
type Config struct {
	Env        string // "development" or "production"
	LogBackend string // encoder selection for zap

	Port          string
	QuickPort     string
	NotifierPort  string
	AllowedOrigin string

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimeZone string

	RedisURL string
	CartTTL  time.Duration
	ChatTTL  time.Duration
	CacheTTL time.Duration

	// Queue
	QueueBackend string // "kafka" or "sqs"
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
	SQSQueueURL  string

	// Quick-order
	QuickOrderAPIKey string
	QuickRateLimit   int
	QuickRateWindow  time.Duration

	// Auth
	JWTSecret        string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	SessionSecret    string

	// Payments
	PaymentMode     string // "stripe" or "mock"
	StripeSecretKey string

	// Notification providers
	NotifyMaxAttempts int
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
	SMTPHost          string
	SMTPPort          string
	SMTPUser          string
	SMTPPass          string
}

// Load reads the environment (with optional .env file) into a Config.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:        getEnv("APP_ENV", "development"),
		LogBackend: getEnv("LOG_BACKEND", "development"),

		Port:          getEnv("PORT", "8080"),
		QuickPort:     getEnv("QUICK_ORDER_PORT", "8091"),
		NotifierPort:  getEnv("NOTIFIER_PORT", "8092"),
		AllowedOrigin: getEnv("QUICK_ORDER_ALLOWED_ORIGIN", "*"),

		DBHost:     getEnv("POSTGRES_HOST", "localhost"),
		DBPort:     getEnv("POSTGRES_PORT", "5432"),
		DBUser:     getEnv("POSTGRES_USER", "baklava"),
		DBPassword: getEnv("POSTGRES_PASSWORD", "baklava"),
		DBName:     getEnv("POSTGRES_DB", "baklava"),
		DBSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		DBTimeZone: getEnv("POSTGRES_TIMEZONE", "Europe/Istanbul"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		CartTTL:  getDuration("CART_TTL", 7*24*time.Hour),
		ChatTTL:  getDuration("CHAT_SESSION_TTL", 30*time.Minute),
		CacheTTL: getDuration("PRODUCT_CACHE_TTL", 5*time.Minute),

		QueueBackend: getEnv("QUEUE_BACKEND", "kafka"),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "notification.jobs"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "notifier"),
		SQSQueueURL:  os.Getenv("SQS_QUEUE_URL"),

		QuickOrderAPIKey: os.Getenv("QUICK_ORDER_API_KEY"),
		QuickRateLimit:   getInt("QUICK_ORDER_RATE_LIMIT", 10),
		QuickRateWindow:  getDuration("QUICK_ORDER_RATE_WINDOW", time.Minute),

		JWTSecret:        getEnv("JWT_SECRET", "dev-only-secret"),
		AccessTokenTTL:   getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:  getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		OIDCIssuer:       os.Getenv("OIDC_ISSUER"),
		OIDCClientID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		SessionSecret:    getEnv("SESSION_SECRET", "change-me"),

		PaymentMode:     getEnv("PAYMENT_MODE", "mock"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		NotifyMaxAttempts: getInt("NOTIFY_MAX_ATTEMPTS", 3),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}

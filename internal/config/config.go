package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	NewRelic    NewRelicConfig
	Auth        AuthConfig
	Flutterwave FlutterwaveConfig
	RateLimit   RateLimitConfig
	LogLevel    string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// AuthConfig holds JWT signing configuration.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// FlutterwaveConfig holds payment gateway credentials and checkout settings.
// SecretKey and SecretHash are handed to the gateway client and the webhook
// authenticator at construction time.
type FlutterwaveConfig struct {
	BaseURL       string
	SecretKey     string
	SecretHash    string
	Currency      string
	RedirectURL   string
	TxRefPrefix   string
	CheckoutTitle string
	CheckoutLogo  string
	Timeout       time.Duration

	// RequireSignature rejects webhooks when no SecretHash is configured.
	// When false, an empty SecretHash means webhooks are accepted unverified.
	RequireSignature bool
}

// RateLimitConfig holds per-client request limits for public endpoints.
type RateLimitConfig struct {
	WebhookPerSecond float64
	WebhookBurst     int
	AuthPerSecond    float64
	AuthBurst        int
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 45*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "storefront"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getDurationEnv("JWT_TTL", 24*time.Hour),
		},
		Flutterwave: FlutterwaveConfig{
			BaseURL:          getEnv("FLUTTERWAVE_BASE_URL", "https://api.flutterwave.com"),
			SecretKey:        getEnv("FLUTTERWAVE_SECRET_KEY", ""),
			SecretHash:       getEnv("FLUTTERWAVE_SECRET_HASH", ""),
			Currency:         getEnv("FLUTTERWAVE_CURRENCY", "NGN"),
			RedirectURL:      getEnv("FLUTTERWAVE_REDIRECT_URL", "http://localhost:3000/payment/callback"),
			TxRefPrefix:      getEnv("FLUTTERWAVE_TX_REF_PREFIX", "JHYTERMAX"),
			CheckoutTitle:    getEnv("FLUTTERWAVE_CHECKOUT_TITLE", "Jhytermax Order Payment"),
			CheckoutLogo:     getEnv("FLUTTERWAVE_CHECKOUT_LOGO", ""),
			Timeout:          getDurationEnv("FLUTTERWAVE_TIMEOUT", 30*time.Second),
			RequireSignature: getBoolEnv("WEBHOOK_REQUIRE_SIGNATURE", false),
		},
		RateLimit: RateLimitConfig{
			WebhookPerSecond: getFloatEnv("RATE_LIMIT_WEBHOOK_RPS", 200),
			WebhookBurst:     getIntEnv("RATE_LIMIT_WEBHOOK_BURST", 2000),
			AuthPerSecond:    getFloatEnv("RATE_LIMIT_AUTH_RPS", 0.5),
			AuthBurst:        getIntEnv("RATE_LIMIT_AUTH_BURST", 10),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// Config holds all configuration for the application
type Config struct {
	Port        string
	Env         string
	Storage     string
	CORSOrigins []string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	SessionSecret string
	SessionMaxAge int
	CookieSecure  bool

	Razorpay RazorpayConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers      []string
	KafkaPaymentTopic string

	SMTP SMTPConfig

	LogDir    string
	LogStdout bool
}

// RazorpayConfig holds the provider credentials and call policy
type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
	Timeout       time.Duration
	MaxAttempts   int
}

// Configured reports whether both API credentials are present
func (r RazorpayConfig) Configured() bool {
	return r.KeyID != "" && r.KeySecret != ""
}

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether receipts can be mailed
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// LoadConfig loads configuration from .env (when present) and the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		Storage:     strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		CORSOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "paygate"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),

		Razorpay: RazorpayConfig{
			KeyID:         os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
			WebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
			Currency:      strings.ToUpper(getEnv("PAYMENT_CURRENCY", "INR")),
		},

		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaPaymentTopic: getEnv("KAFKA_PAYMENT_TOPIC", "payment.events"),

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},

		LogDir:    getEnv("LOG_DIR", "logs"),
		LogStdout: getEnvBool("LOG_STDOUT", false),
	}

	var err error
	if config.SessionMaxAge, err = getEnvInt("SESSION_MAX_AGE", 60*60*24); err != nil {
		return nil, err
	}
	if config.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.SMTP.Port, err = getEnvInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if config.Razorpay.MaxAttempts, err = getEnvInt("PROVIDER_MAX_ATTEMPTS", 2); err != nil {
		return nil, err
	}
	if config.Razorpay.Timeout, err = time.ParseDuration(getEnv("PROVIDER_TIMEOUT", "15s")); err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %v", err)
	}
	if config.Razorpay.WebhookSecret == "" {
		config.Razorpay.WebhookSecret = config.Razorpay.KeySecret
	}
	if config.SMTP.From == "" {
		config.SMTP.From = config.SMTP.Username
	}

	if config.Storage != StoragePostgres && config.Storage != StorageMemory {
		return nil, fmt.Errorf("invalid STORAGE %q, must be %s or %s", config.Storage, StoragePostgres, StorageMemory)
	}

	if !currencyCode.MatchString(config.Razorpay.Currency) {
		return nil, fmt.Errorf("invalid PAYMENT_CURRENCY %q, must be a three-letter ISO code", config.Razorpay.Currency)
	}

	if config.SessionSecret == "" {
		if config.Env == "production" {
			return nil, fmt.Errorf("SESSION_SECRET must be set in production")
		}
		config.SessionSecret = "paygate-development-session-secret"
	}

	return config, nil
}

// DSN builds the Postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

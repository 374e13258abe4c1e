package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp keeps a developer's .env out of the test.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "STORAGE", "CORS_ALLOWED_ORIGINS", "SESSION_SECRET", "SESSION_MAX_AGE",
		"RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET", "RAZORPAY_WEBHOOK_SECRET", "PAYMENT_CURRENCY",
		"PROVIDER_TIMEOUT", "PROVIDER_MAX_ATTEMPTS", "KAFKA_BROKERS", "SMTP_HOST", "SMTP_USERNAME", "SMTP_FROM",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "INR", cfg.Razorpay.Currency)
	assert.Equal(t, 15*time.Second, cfg.Razorpay.Timeout)
	assert.Equal(t, 2, cfg.Razorpay.MaxAttempts)
	assert.Equal(t, 86400, cfg.SessionMaxAge)
	assert.NotEmpty(t, cfg.SessionSecret)
	assert.False(t, cfg.Razorpay.Configured())
	assert.False(t, cfg.SMTP.Enabled())
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfigFromEnv(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("STORAGE", "Memory")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp_test_secret")
	t.Setenv("PAYMENT_CURRENCY", "usd")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USERNAME", "billing@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.True(t, cfg.Razorpay.Configured())
	assert.Equal(t, "rzp_test_secret", cfg.Razorpay.WebhookSecret)
	assert.Equal(t, "USD", cfg.Razorpay.Currency)
	assert.Equal(t, 3*time.Second, cfg.Razorpay.Timeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, "billing@example.com", cfg.SMTP.From)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown storage":       {"STORAGE": "sqlite"},
		"bad timeout":           {"PROVIDER_TIMEOUT": "soon"},
		"bad attempts":          {"PROVIDER_MAX_ATTEMPTS": "two"},
		"long currency":         {"PAYMENT_CURRENCY": "RUPEE"},
		"numeric currency":      {"PAYMENT_CURRENCY": "356"},
		"production w/o secret": {"ENV": "production"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			chdirTemp(t)
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

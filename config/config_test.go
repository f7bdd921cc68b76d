package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	for _, key := range []string{"PORT", "DB_DRIVER", "DATABASE_URL", "JWT_SECRET", "REQUEST_TIMEOUT",
		"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST", "EMAIL_PROVIDER", "NOTIFICATION_QUEUE_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Contains(t, cfg.DBUrl, "postgres://")
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, 256, cfg.NotificationQueueSize)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REQUEST_TIMEOUT", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("SES_INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "eventhub.db", cfg.DBUrl)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.Email.SESInsecureSkipVerify)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = newLogger(&buf, "development", "bogus")
	logger.Debug("hidden")
	logger.Info("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "msg=shown"))
}

package config_test

import (
	"complaintdesk/backend/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "CORS_ORIGIN", "DB_DRIVER", "DB_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "JWT_SECRET", "SIMULATED_DELAY", "LOG_LEVEL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_ADMIN_CHAT_ID", "NOTIFY_LANG"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigin)
	assert.Empty(t, cfg.DBDriver)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, time.Second, cfg.SimulatedDelay)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Empty(t, cfg.TelegramBotToken)
	assert.Equal(t, "en", cfg.NotifyLang)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SIMULATED_DELAY", "250ms")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "localhost:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 250*time.Millisecond, cfg.SimulatedDelay)
}

func TestLoad_Telegram(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "-1001234567890")
	t.Setenv("NOTIFY_LANG", "uk")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.Equal(t, int64(-1001234567890), cfg.TelegramChatID)
	assert.Equal(t, "uk", cfg.NotifyLang)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad redis db", env: map[string]string{"REDIS_DB": "x"}},
		{name: "bad delay", env: map[string]string{"SIMULATED_DELAY": "soon"}},
		{name: "negative delay", env: map[string]string{"SIMULATED_DELAY": "-1s"}},
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql", "DB_DSN": "x"}},
		{name: "driver without dsn", env: map[string]string{"DB_DRIVER": "postgres"}},
		{name: "token without chat", env: map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc"}},
		{name: "bad chat id", env: map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc", "TELEGRAM_ADMIN_CHAT_ID": "admins"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

// Package config holds the service settings read from the environment and the
// fixed domain rules shared by the stores and the HTTP layer.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the server and the admin CLI.
type Config struct {
	HTTPAddr   string
	CORSOrigin string

	// DBDriver selects the directory/complaint backend: "" keeps everything
	// in memory, "postgres" and "sqlite" use gorm.
	DBDriver string
	DBDSN    string

	// RedisAddr enables redis-backed session records and event fan-out.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret      string
	SimulatedDelay time.Duration
	LogLevel       string

	// TelegramBotToken enables notifications to the administrators' chat.
	TelegramBotToken string
	TelegramChatID   int64
	NotifyLang       string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}

	cfg := &Config{
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		CORSOrigin:    env("CORS_ORIGIN", "http://localhost:5173"),
		DBDriver:      env("DB_DRIVER", ""),
		DBDSN:         env("DB_DSN", ""),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPassword: env("REDIS_PASSWORD", ""),
		JWTSecret:     env("JWT_SECRET", "complaintdesk-dev-secret"),
		LogLevel:      env("LOG_LEVEL", "info"),

		TelegramBotToken: env("TELEGRAM_BOT_TOKEN", ""),
		NotifyLang:       env("NOTIFY_LANG", "en"),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(env("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.SimulatedDelay, err = time.ParseDuration(env("SIMULATED_DELAY", DefaultSimulatedDelay.String())); err != nil {
		return nil, fmt.Errorf("invalid SIMULATED_DELAY: %w", err)
	}
	if cfg.SimulatedDelay < 0 {
		return nil, fmt.Errorf("invalid SIMULATED_DELAY: must not be negative")
	}

	if cfg.TelegramBotToken != "" {
		raw := env("TELEGRAM_ADMIN_CHAT_ID", "")
		if raw == "" {
			return nil, fmt.Errorf("TELEGRAM_ADMIN_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
		}
		if cfg.TelegramChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
		}
	}

	switch cfg.DBDriver {
	case "":
	case "postgres", "sqlite":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required when DB_DRIVER=%s", cfg.DBDriver)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// env returns the environment variable value for key, or fallback if empty.
func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

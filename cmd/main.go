package main

import (
	"complaintdesk/backend/internal/api/handler"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/events"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/logger"
	"complaintdesk/backend/internal/metrics"
	"complaintdesk/backend/internal/session"
	"complaintdesk/backend/internal/storage"
	"complaintdesk/backend/internal/telegram"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// setupDependencies opens the configured backends. Without DB_DRIVER the
// directory and complaints live in memory; without REDIS_ADDR so do sessions.
func setupDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Storage, storage.SessionStore, *redis.Client) {
	var s storage.Storage
	if cfg.DBDriver == "" {
		s = storage.NewMemoryStore()
		log.Info().Msg("using in-memory storage")
	} else {
		db, err := storage.OpenDB(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
		}
		s = storage.NewStorageService(db)
		log.Info().Str("driver", cfg.DBDriver).Msg("database connected, migrations complete")
	}

	if err := storage.Seed(ctx, s, time.Now()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed storage")
	}

	if cfg.RedisAddr == "" {
		return s, storage.NewMemorySessionStore(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect redis")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
	return s, storage.NewRedisSessionStore(rdb), rdb
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel)
	log.Info().Msg("Starting complaint desk backend...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, sessions, rdb := setupDependencies(ctx, cfg, log)

	labels, err := localization.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load translations")
	}

	m := metrics.New()
	hub := events.NewHub(log.With().Str("component", "hub").Logger())
	m.TrackClients(hub.ClientCount)
	go hub.Run(ctx)

	// With redis, events go through pub/sub so every instance relays them to
	// its own clients. Without it the hub is the publisher.
	var publisher events.Publisher = hub
	if rdb != nil {
		publisher = storage.NewRedisPublisher(rdb, config.EventsChannel)
		go func() {
			if err := hub.Relay(ctx, rdb, config.EventsChannel); err != nil {
				log.Error().Err(err).Msg("event relay stopped")
			}
		}()
	}

	if cfg.TelegramBotToken != "" {
		bot, err := telegram.NewBotService(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.NotifyLang, s, labels,
			log.With().Str("component", "telegram").Logger())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start telegram bot")
		}
		go bot.Run(ctx)
		go bot.Listen(ctx)
		publisher = events.Fanout{publisher, bot}
	}

	directory := session.NewDirectory(s)
	registry := session.NewRegistry(directory, sessions, cfg.SimulatedDelay, log.With().Str("component", "session").Logger())
	publisher = &metrics.CountingPublisher{Next: publisher, Metrics: m}
	complaints := complaint.NewService(s, publisher, log.With().Str("component", "complaints").Logger())

	gin.SetMode(gin.ReleaseMode)
	h := handler.NewHandler(registry, complaints, hub, labels, cfg.JWTSecret, log.With().Str("component", "http").Logger())
	h.Metrics = m

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        h.NewRouter(cfg.CORSOrigin),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if rdb != nil {
		rdb.Close()
	}
}

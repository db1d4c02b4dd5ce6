package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RaicesMX/RaicesMX/internal/api"
	h "github.com/RaicesMX/RaicesMX/internal/http"
	"github.com/RaicesMX/RaicesMX/internal/progress"
)

type Config struct {
	HTTPPort           string
	BackendBaseURL     string
	RedisAddr          string
	RedisPassword      string
	RequestTimeout     time.Duration
	UpstreamTimeout    time.Duration
	ShutdownTimeout    time.Duration
	MinLoadingDuration time.Duration
	NotificationTTL    time.Duration
	ProgressTTL        time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		BackendBaseURL:     getEnv("BACKEND_BASE_URL", "http://localhost:3000"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RequestTimeout:     30 * time.Second,
		UpstreamTimeout:    15 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MinLoadingDuration: 300 * time.Millisecond,
		NotificationTTL:    3 * time.Second,
		ProgressTTL:        progress.DefaultTTL,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := loadConfig()

	client := api.NewClient(api.Config{
		BaseURL:        cfg.BackendBaseURL,
		RequestTimeout: cfg.UpstreamTimeout,
	}, log)
	log.Info("marketplace backend client ready", zap.String("base_url", cfg.BackendBaseURL))

	var progressStore progress.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		progressStore = progress.NewRedisStore(redisClient, cfg.ProgressTTL, log)
		log.Info("using redis progress store", zap.String("addr", cfg.RedisAddr))
	} else {
		progressStore = progress.NewMemoryStore(log)
		log.Warn("REDIS_ADDR not set, checkout progress is in-memory only")
	}

	sessions := h.NewSessions(client, progressStore, h.SessionConfig{
		MinLoadingDuration: cfg.MinLoadingDuration,
		NotificationTTL:    cfg.NotificationTTL,
	}, log)
	ordersHandler := h.NewOrdersHandler(client)

	router := h.NewRouter(sessions, ordersHandler, cfg.RequestTimeout, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("checkout session service starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

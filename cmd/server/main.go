package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pejman93/echopulse/internal/classify"
	"github.com/pejman93/echopulse/internal/combine"
	"github.com/pejman93/echopulse/internal/config"
	"github.com/pejman93/echopulse/internal/metrics"
	"github.com/pejman93/echopulse/internal/platform/logging"
	"github.com/pejman93/echopulse/internal/redis"
	"github.com/pejman93/echopulse/internal/server"
	"github.com/pejman93/echopulse/internal/speaker"
	"github.com/pejman93/echopulse/internal/version"
	"github.com/pejman93/echopulse/internal/websocket"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupSpeakerStore selects Redis-backed state when REDIS_URL is set and
// falls back to the in-memory store otherwise. The returned client is nil in
// memory mode.
func setupSpeakerStore(cfg *config.Config) (speaker.Store, *redis.Client) {
	bounds := speaker.Bounds{Min: cfg.CalibrationMin, Max: cfg.CalibrationMax}

	if cfg.RedisURL == "" {
		slog.Info("No REDIS_URL configured, using in-memory speaker store")
		return speaker.NewInMemoryStore(bounds), nil
	}

	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to create Redis client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	return speaker.NewRedisStore(client.Underlying(), bounds), client
}

func runGracefulShutdown(srv *server.Server, hub *websocket.Hub, redisClient *redis.Client) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		hub.Stop()

		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				slog.Error("Redis close error", "error", err)
			}
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	info := version.Get()
	slog.Info("Application starting",
		"env", cfg.AppEnv,
		"port", cfg.Port,
		"version", info.Version,
		"commit", info.Commit,
	)
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.BuildTime, info.GoVersion).Set(1)

	speakers, redisClient := setupSpeakerStore(cfg)

	classifier := classify.New(speakers, clock)
	combiner := combine.New(clock, cfg.PrimaryWeight)
	hub := websocket.NewHub(cfg.MaxFeedConnections)

	srv, err := server.NewServer(cfg, classifier, combiner, speakers, hub, pingerOrNil(redisClient), clock)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, hub, redisClient)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}

// pingerOrNil avoids passing a typed-nil *redis.Client through the pinger
// interface.
func pingerOrNil(c *redis.Client) server.Pinger {
	if c == nil {
		return nil
	}
	return c
}

// cmd/shopscout/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shopscout/internal/cache"
	"shopscout/internal/common/config"
	"shopscout/internal/common/database"
	"shopscout/internal/common/logger"
	"shopscout/internal/common/observability"
	"shopscout/internal/oracle"
	"shopscout/internal/search"
	"shopscout/internal/server"
	"shopscout/internal/sources"
	"shopscout/internal/websearch"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting shopscout...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init External Collaborators ---
	searcher := websearch.NewClient(cfg.APIs, log)
	oracles := oracle.New(cfg.APIs, log)

	// --- Assemble Source Adapters (order is the merge order) ---
	adapters := []sources.Adapter{
		sources.NewPriceSiteAdapter(cfg.Sources.PriceSite, log),
		sources.NewResaleSiteAdapter(cfg.Sources.ResaleSite, log),
		sources.NewDiscoveryAdapter(cfg.Sources.Discovery, searcher, log),
		sources.NewUserTargetAdapter(cfg.Sources.UserTarget, log),
	}

	resultCache := cache.New(cache.NewRedisStore(redis), cfg.Cache.GetTTL(), log)

	service := search.NewService(search.Deps{
		Adapters:      adapters,
		Oracles:       oracles,
		Searcher:      searcher,
		Cache:         resultCache,
		Observability: obs,
		Logger:        log,
	})

	srv := server.New(cfg.Server, service, redis, log)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
	}

	zapLog.Info("Shopscout stopped gracefully")
}

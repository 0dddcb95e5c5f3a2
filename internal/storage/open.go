package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/yingzhou/internal/config"
	"github.com/jwebster45206/yingzhou/pkg/storage"
)

const (
	redisConnectRetries = 5
	redisRetryDelay     = time.Second
)

// Open returns the save backend named by cfg.SaveBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	logger = logger.With("backend", cfg.SaveBackend)

	switch cfg.SaveBackend {
	case config.BackendFile:
		logger.Info("Using file saves", "dir", cfg.SaveDir)
		return NewFileStorage(cfg.SaveDir, logger)

	case config.BackendSQLite:
		logger.Info("Using sqlite saves", "path", cfg.SQLitePath)
		return NewSQLiteStorage(ctx, cfg.SQLitePath, logger)

	case config.BackendRedis:
		store, err := NewRedisStorage(cfg.RedisURL, cfg.SaveTTL, logger)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForConnection(ctx, redisConnectRetries, redisRetryDelay); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil

	case config.BackendMemory:
		logger.Warn("Using in-memory saves; progress is lost on exit")
		return storage.NewMockStorage(), nil
	}

	return nil, fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
}

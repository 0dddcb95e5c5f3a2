package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/yingzhou/pkg/state"
	"github.com/jwebster45206/yingzhou/pkg/storage"
	"github.com/redis/go-redis/v9"
)

const (
	recordKeyPrefix = "save:"
	recordIndexKey  = "saves"
)

// RedisStorage keeps save records as JSON strings under save:<id>, indexed
// by a sorted set scored on update time.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage connects to redisURL. A zero ttl keeps records forever.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger,
		ttl:    ttl,
	}, nil
}

func recordKey(id uuid.UUID) string {
	return recordKeyPrefix + id.String()
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Save record operations

func (r *RedisStorage) SaveRecord(ctx context.Context, rec *state.SaveRecord) error {
	if rec == nil || rec.ID == uuid.Nil {
		return errors.New("save record must have an id")
	}
	rec.UpdatedAt = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		r.logger.Error("Failed to marshal save record", "uuid", rec.ID, "error", err)
		return fmt.Errorf("failed to marshal save record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, recordKey(rec.ID), data, r.ttl)
	pipe.ZAdd(ctx, recordIndexKey, redis.Z{
		Score:  float64(rec.UpdatedAt.UnixMilli()),
		Member: rec.ID.String(),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to save record", "uuid", rec.ID, "error", err)
		return fmt.Errorf("failed to save record: %w", err)
	}

	r.logger.Debug("Saved record", "uuid", rec.ID, "epoch", rec.CurrentEpoch)
	return nil
}

func (r *RedisStorage) LoadRecord(ctx context.Context, id uuid.UUID) (*state.SaveRecord, error) {
	data, err := r.client.Get(ctx, recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Save record not found", "uuid", id)
			return nil, nil
		}
		r.logger.Error("Failed to load save record", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load save record: %w", err)
	}

	var rec state.SaveRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		r.logger.Error("Failed to unmarshal save record", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal save record: %w", err)
	}
	if rec.ID == uuid.Nil {
		rec.ID = id
	}
	return &rec, nil
}

func (r *RedisStorage) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, recordKey(id))
	pipe.ZRem(ctx, recordIndexKey, id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to delete save record", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete save record: %w", err)
	}
	return nil
}

// ListRecords reads the index newest first and prunes entries whose record
// has expired.
func (r *RedisStorage) ListRecords(ctx context.Context) ([]uuid.UUID, error) {
	members, err := r.client.ZRevRange(ctx, recordIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list save records: %w", err)
	}
	if len(members) == 0 {
		return []uuid.UUID{}, nil
	}

	pipe := r.client.Pipeline()
	exists := make([]*redis.IntCmd, len(members))
	for i, m := range members {
		exists[i] = pipe.Exists(ctx, recordKeyPrefix+m)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check save records: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	var stale []any
	for i, m := range members {
		id, err := uuid.Parse(m)
		if err != nil || exists[i].Val() == 0 {
			stale = append(stale, m)
			continue
		}
		ids = append(ids, id)
	}
	if len(stale) > 0 {
		if err := r.client.ZRem(ctx, recordIndexKey, stale...).Err(); err != nil {
			r.logger.Warn("Failed to prune save index", "error", err)
		}
	}
	return ids, nil
}

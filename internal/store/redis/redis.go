// Package redis implements the Store interface using Redis/Valkey.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dwsmith1983/causeway/internal/store"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// Compile-time interface satisfaction check.
var _ store.Store = (*RedisStore)(nil)

// RedisStore implements the Store interface backed by Redis/Valkey.
// Records live in a per-run list, so appends are atomic and listing
// preserves append order.
type RedisStore struct {
	client *goredis.Client
	prefix string
}

// New creates a new RedisStore.
func New(cfg *types.RedisConfig) *RedisStore {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "causeway:"
	}

	return &RedisStore{client: client, prefix: prefix}
}

// NewFromClient creates a RedisStore from an existing client (useful for testing).
func NewFromClient(client *goredis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "causeway:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) recordsKey(runID string) string {
	return s.prefix + "records:" + runID
}

func (s *RedisStore) statusKey(runID string) string {
	return s.prefix + "status:" + runID
}

func (s *RedisStore) lockKey(key string) string {
	return s.prefix + "lock:" + key
}

// ListCauseRecords returns the run's records in append order.
func (s *RedisStore) ListCauseRecords(ctx context.Context, runID string) ([]types.CauseRecord, error) {
	items, err := s.client.LRange(ctx, s.recordsKey(runID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing cause records: %w", err)
	}

	records := make([]types.CauseRecord, 0, len(items))
	for _, item := range items {
		var rec types.CauseRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshaling cause record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// AppendCauseRecord pushes one record onto the run's record list.
func (s *RedisStore) AppendCauseRecord(ctx context.Context, runID string, rec types.CauseRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling cause record: %w", err)
	}
	return s.client.RPush(ctx, s.recordsKey(runID), data).Err()
}

// GetRunStatus returns the run's terminal status, or ErrNotFound.
func (s *RedisStore) GetRunStatus(ctx context.Context, runID string) (types.TerminalStatus, error) {
	val, err := s.client.Get(ctx, s.statusKey(runID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting run status: %w", err)
	}
	return types.TerminalStatus(val), nil
}

// PutRunStatus applies a terminal status to the run.
func (s *RedisStore) PutRunStatus(ctx context.Context, runID string, status types.TerminalStatus) error {
	return s.client.Set(ctx, s.statusKey(runID), string(status), 0).Err()
}

// AcquireLock takes the named lock via SET NX with the given TTL.
func (s *RedisStore) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.lockKey(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquiring lock: %w", err)
	}
	return ok, nil
}

// ReleaseLock frees the named lock.
func (s *RedisStore) ReleaseLock(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.lockKey(key)).Err()
}

// Start initializes the store connection.
func (s *RedisStore) Start(ctx context.Context) error {
	return s.Ping(ctx)
}

// Stop closes the store connection.
func (s *RedisStore) Stop(_ context.Context) error {
	return s.client.Close()
}

// Ping checks connectivity to the Redis server.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

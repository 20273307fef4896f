// Package kv provides Redis-backed key-value storage for snapshot payloads.
package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"chart_backend/internal/feature/chart/usecase"
)

// RedisStore persists snapshot blobs in Redis with per-key TTLs.
type RedisStore struct {
	rdb *redis.Client
}

var _ usecase.SnapshotStore = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Get returns the stored value for key. The second return value reports
// whether the key exists; a missing key is not an error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Put stores value under key. A ttl of 0 means the key never expires.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// internal/cache/redis_store.go
package cache

import (
	"context"

	"shopscout/internal/common/database"
)

// RedisStore persists cache entries in Redis. Writes carry no expiration:
// the cache decides freshness on read, and Redis only holds the bytes.
type RedisStore struct {
	redis *database.RedisClient
}

func NewRedisStore(redis *database.RedisClient) *RedisStore {
	return &RedisStore{redis: redis}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.redis.Get(ctx, key)
	if err != nil {
		if database.IsNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	return s.redis.Set(ctx, key, value, 0)
}

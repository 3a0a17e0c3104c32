package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"papers-store-backend/internal/common/logger"
	"papers-store-backend/internal/platform/redis"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// CacheService stores JSON-encoded values in redis.
type CacheService struct {
	redisClient redis.RedisClient
}

func NewCacheService(redisClient redis.RedisClient) *CacheService {
	return &CacheService{
		redisClient: redisClient,
	}
}

func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.redisClient.Set(ctx, key, data, ttl).Err()
}

func (c *CacheService) Delete(ctx context.Context, key string) error {
	return c.redisClient.Del(ctx, key).Err()
}

// GetOrLoad fills dest from the cache, or from load on a miss, storing the
// loaded value for ttl. Redis failures degrade to calling load; only load
// errors are returned.
func GetOrLoad[T any](ctx context.Context, c *CacheService, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var cached T
	if c == nil {
		return load()
	}

	err := c.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrMiss) {
		logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}

	return value, nil
}

package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisCache shares the provider cache across processes over Redis. Values
// are JSON, expiry is delegated to Redis so no in-process bound is needed.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

// NewRedisCacheWithClient wires an existing client, mainly for tests.
func NewRedisCacheWithClient(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Route, bool, error) {
	data, err := c.rdb.Get(ctx, c.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Route{}, false, nil
	}
	if err != nil {
		return Route{}, false, fmt.Errorf("redis get: %w", err)
	}
	var r Route
	if err := json.Unmarshal(data, &r); err != nil {
		return Route{}, false, fmt.Errorf("decode cached route: %w", err)
	}
	return r, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, r Route) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode route: %w", err)
	}
	if err := c.rdb.Set(ctx, c.redisKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) redisKey(key string) string { return "route:" + key }

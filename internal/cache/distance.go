// internal/cache/distance.go
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const distanceKeyPrefix = "allocator:distance:"

// DistanceCache is a shared, cross-process cache of resolved distances keyed
// by address pair. The engine itself never touches it; only the distance
// resolver does.
type DistanceCache interface {
	Get(ctx context.Context, from, to string) (float64, bool, error)
	Set(ctx context.Context, from, to string, miles float64) error
}

type noopDistanceCache struct{}

// NewNoopDistanceCache returns a DistanceCache that stores nothing. Used when
// caching is disabled so callers never need a nil check.
func NewNoopDistanceCache() DistanceCache {
	return noopDistanceCache{}
}

func (noopDistanceCache) Get(context.Context, string, string) (float64, bool, error) {
	return 0, false, nil
}

func (noopDistanceCache) Set(context.Context, string, string, float64) error {
	return nil
}

type redisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDistanceCache returns a redis-backed DistanceCache.
func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) DistanceCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisDistanceCache{client: client, ttl: ttl}
}

func distanceKey(from, to string) string {
	return distanceKeyPrefix + from + "|" + to
}

func (c *redisDistanceCache) Get(ctx context.Context, from, to string) (float64, bool, error) {
	val, err := c.client.Get(ctx, distanceKey(from, to)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	miles, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, err
	}
	return miles, true, nil
}

func (c *redisDistanceCache) Set(ctx context.Context, from, to string, miles float64) error {
	return c.client.Set(ctx, distanceKey(from, to),
		strconv.FormatFloat(miles, 'f', -1, 64), c.ttl).Err()
}

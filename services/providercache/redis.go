package providercache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"itinera/models"

	"github.com/go-redis/redis/v8"
)

const providerKeyPrefix = "provider:"

// DefaultRedisTTL applies when no positive TTL is configured. Redis entries
// always expire; shared keys are never left unbounded.
const DefaultRedisTTL = 6 * time.Hour

// RedisCache keeps provider results in Redis so every API instance can resolve
// a selection made against another instance's search. Entries expire after ttl.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache falls back to DefaultRedisTTL when ttl is not positive.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func resultKey(kind models.ResultKind, key string) string {
	return fmt.Sprintf("%s%s:%s", providerKeyPrefix, kind, key)
}

func (c *RedisCache) Put(ctx context.Context, kind models.ResultKind, key string, result models.ProviderResult) error {
	if err := checkPut(kind, key, &result); err != nil {
		return err
	}
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("provider cache: failed to encode %s %q: %w", kind, key, err)
	}
	if err := c.client.Set(ctx, resultKey(kind, key), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("provider cache: failed to store %s %q: %w", kind, key, err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, kind models.ResultKind, key string) (*models.ProviderResult, bool, error) {
	data, err := c.client.Get(ctx, resultKey(kind, key)).Bytes()
	if err == redis.Nil {
		observe(kind, false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("provider cache: failed to read %s %q: %w", kind, key, err)
	}
	var result models.ProviderResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("provider cache: corrupt entry %s %q: %w", kind, key, err)
	}
	observe(kind, true)
	return &result, true, nil
}

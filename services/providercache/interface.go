package providercache

import (
	"context"
	"fmt"
	"time"

	"itinera/models"
	"itinera/utils"

	"github.com/go-redis/redis/v8"
)

// Cache stores provider search results by kind and key so a later selection
// can be resolved without querying the provider again.
type Cache interface {
	// Put stores or overwrites the result under (kind, key).
	Put(ctx context.Context, kind models.ResultKind, key string, result models.ProviderResult) error
	// Get returns the most recent result for (kind, key). A miss is (nil, false, nil).
	Get(ctx context.Context, kind models.ResultKind, key string) (*models.ProviderResult, bool, error)
}

// Backends accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Settings selects and sizes the cache backend.
type Settings struct {
	Backend  string
	Capacity int
	TTL      time.Duration
}

// New builds the configured backend. The redis client is only used by the redis
// backend, which always expires entries (see DefaultRedisTTL).
func New(s Settings, client *redis.Client) (Cache, error) {
	switch s.Backend {
	case "", BackendMemory:
		return NewMemoryCache(s.Capacity, s.TTL), nil
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("provider cache: redis backend requires a client")
		}
		return NewRedisCache(client, s.TTL), nil
	default:
		return nil, fmt.Errorf("provider cache: unknown backend %q", s.Backend)
	}
}

func checkPut(kind models.ResultKind, key string, result *models.ProviderResult) error {
	if !kind.Valid() {
		return fmt.Errorf("provider cache: unknown kind %q", kind)
	}
	if key == "" {
		return fmt.Errorf("provider cache: empty key for kind %q", kind)
	}
	result.Kind = kind
	result.Key = key
	return result.Validate()
}

func observe(kind models.ResultKind, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	utils.ProviderCacheLookups.WithLabelValues(string(kind), result).Inc()
}

package providercache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"itinera/models"
)

// DefaultCapacity is used when a non-positive capacity is configured.
const DefaultCapacity = 5000

// MemoryCache is an in-process cache with one LRU keyspace per result kind.
// Each keyspace holds at most capacity entries; entries older than ttl are
// treated as absent. A zero ttl disables expiry.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	spaces   map[models.ResultKind]*keyspace
}

type keyspace struct {
	order *list.List
	items map[string]*list.Element
}

type memoryEntry struct {
	key       string
	result    models.ProviderResult
	expiresAt time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates a bounded in-process cache.
func NewMemoryCache(capacity int, ttl time.Duration, opts ...MemoryOption) *MemoryCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &MemoryCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		spaces:   make(map[models.ResultKind]*keyspace),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) space(kind models.ResultKind) *keyspace {
	ks, ok := c.spaces[kind]
	if !ok {
		ks = &keyspace{order: list.New(), items: make(map[string]*list.Element)}
		c.spaces[kind] = ks
	}
	return ks
}

// Put stores the result, evicting the least recently used entry of the kind when full.
func (c *MemoryCache) Put(_ context.Context, kind models.ResultKind, key string, result models.ProviderResult) error {
	if err := checkPut(kind, key, &result); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	ks := c.space(kind)
	if el, ok := ks.items[key]; ok {
		e := el.Value.(*memoryEntry)
		e.result = result
		e.expiresAt = expiresAt
		ks.order.MoveToFront(el)
		return nil
	}

	ks.items[key] = ks.order.PushFront(&memoryEntry{key: key, result: result, expiresAt: expiresAt})
	for ks.order.Len() > c.capacity {
		oldest := ks.order.Back()
		ks.order.Remove(oldest)
		delete(ks.items, oldest.Value.(*memoryEntry).key)
	}
	return nil
}

// Get returns the cached result, or a miss when absent or expired.
func (c *MemoryCache) Get(_ context.Context, kind models.ResultKind, key string) (*models.ProviderResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ks, ok := c.spaces[kind]
	if !ok {
		observe(kind, false)
		return nil, false, nil
	}
	el, ok := ks.items[key]
	if !ok {
		observe(kind, false)
		return nil, false, nil
	}
	e := el.Value.(*memoryEntry)
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		ks.order.Remove(el)
		delete(ks.items, key)
		observe(kind, false)
		return nil, false, nil
	}
	ks.order.MoveToFront(el)
	observe(kind, true)
	result := e.result
	return &result, true, nil
}

// Len reports how many entries the kind currently holds, expired ones included.
func (c *MemoryCache) Len(kind models.ResultKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ks, ok := c.spaces[kind]; ok {
		return ks.order.Len()
	}
	return 0
}

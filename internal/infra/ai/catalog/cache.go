package catalog

import (
	"context"
	"sync"
	"time"
)

// Entry is a cached model listing.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Models    []string  `json:"models"`
}

// Cache stores catalog entries. Implementations synchronize internally.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
}

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Entry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok {
		return Entry{}, false, nil
	}
	if !item.expiresAt.IsZero() && !c.now().Before(item.expiresAt) {
		return Entry{}, false, nil
	}
	return Entry{
		Timestamp: item.entry.Timestamp,
		Models:    append([]string(nil), item.entry.Models...),
	}, true, nil
}

// Set stores entry. A ttl <= 0 keeps it until replaced.
func (c *MemoryCache) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := memoryItem{entry: Entry{
		Timestamp: entry.Timestamp,
		Models:    append([]string(nil), entry.Models...),
	}}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}
	c.items[key] = item
	return nil
}

// Invalidate drops key, forcing the next read to miss.
func (c *MemoryCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/catalog"
)

// CatalogCache implements catalog.Cache on Redis so replicas share one listing.
type CatalogCache struct {
	client *Client
}

var _ catalog.Cache = (*CatalogCache)(nil)

// NewCatalogCache creates a Redis-backed catalog cache.
func NewCatalogCache(client *Client) *CatalogCache {
	return &CatalogCache{client: client}
}

// Get returns the entry stored under key.
func (c *CatalogCache) Get(ctx context.Context, key string) (catalog.Entry, bool, error) {
	data, err := c.client.rdb.Get(ctx, c.client.catalogKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return catalog.Entry{}, false, nil
	}
	if err != nil {
		return catalog.Entry{}, false, fmt.Errorf("get failed: %w", err)
	}

	var entry catalog.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return catalog.Entry{}, false, fmt.Errorf("failed to unmarshal catalog entry: %w", err)
	}
	return entry, true, nil
}

// Set stores entry under key with ttl.
func (c *CatalogCache) Set(ctx context.Context, key string, entry catalog.Entry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog entry: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.rdb.Set(ctx, c.client.catalogKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}
	return nil
}

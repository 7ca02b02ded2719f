// Package catalog lists the models available to the provider account and
// caches the normalized result for a TTL.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/provider"
	"github.com/augleao/frontend-dev-sub000/internal/metrics"
)

const (
	// DefaultTTL is how long a listing is served from cache.
	DefaultTTL = 5 * time.Minute

	// CacheKey is the key the listing is stored under.
	CacheKey = "ia:models"

	// DefaultRefreshTimeout bounds a shared refresh, which outlives the
	// caller that started it.
	DefaultRefreshTimeout = 60 * time.Second
)

// ErrNoLister is returned when no listing method is configured.
var ErrNoLister = errors.New("no model lister configured")

// Catalog serves the cached model listing.
type Catalog struct {
	primary   provider.ModelLister
	secondary provider.ModelLister
	cache     Cache
	ttl       time.Duration
	timeout   time.Duration
	now       func() time.Time
	logger    *slog.Logger

	group singleflight.Group
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSecondary sets the listing method tried once after the primary fails.
func WithSecondary(l provider.ModelLister) Option {
	return func(c *Catalog) { c.secondary = l }
}

// WithCache replaces the default in-memory cache.
func WithCache(cache Cache) Option {
	return func(c *Catalog) { c.cache = cache }
}

// WithTTL sets the cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Catalog) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRefreshTimeout bounds shared refreshes.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Catalog) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// New creates a Catalog listing models through primary.
func New(primary provider.ModelLister, opts ...Option) *Catalog {
	c := &Catalog{
		primary: primary,
		ttl:     DefaultTTL,
		timeout: DefaultRefreshTimeout,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewMemoryCache()
	}
	return c
}

// TTL returns the configured cache TTL.
func (c *Catalog) TTL() time.Duration {
	return c.ttl
}

// ListAvailableModels returns normalized model keys. A fresh cached listing
// is returned unless force is set. On failure the cache is left untouched.
//
// Concurrent cache misses share one refresh. A forced call always lists on
// its own and never joins a refresh already in flight.
func (c *Catalog) ListAvailableModels(ctx context.Context, force bool) ([]string, error) {
	if force {
		models, err := c.refresh(ctx)
		if err != nil {
			return nil, err
		}
		return append([]string(nil), models...), nil
	}

	entry, ok, err := c.cache.Get(ctx, CacheKey)
	if err != nil {
		c.logger.Warn("Model catalog cache read failed", "error", err)
	}
	if ok && c.now().Sub(entry.Timestamp) < c.ttl {
		metrics.CatalogCacheHits.Inc()
		return entry.Models, nil
	}

	// The shared refresh must not die with whichever caller started it.
	ch := c.group.DoChan(CacheKey, func() (any, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.refresh(refreshCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		models := res.Val.([]string)
		return append([]string(nil), models...), nil
	}
}

func (c *Catalog) refresh(ctx context.Context) ([]string, error) {
	raw, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	models := NormalizeModelNames(raw)
	entry := Entry{Timestamp: c.now(), Models: models}
	if err := c.cache.Set(ctx, CacheKey, entry, c.ttl); err != nil {
		c.logger.Warn("Model catalog cache write failed", "error", err)
	}
	c.logger.Debug("Model catalog refreshed", "models", len(models))
	return models, nil
}

func (c *Catalog) list(ctx context.Context) ([]string, error) {
	if c.primary == nil && c.secondary == nil {
		return nil, ErrNoLister
	}

	var primaryErr error
	if c.primary != nil {
		names, err := c.primary.ListModels(ctx)
		if err == nil {
			metrics.CatalogRefreshTotal.WithLabelValues("primary", "success").Inc()
			return names, nil
		}
		primaryErr = err
		metrics.CatalogRefreshTotal.WithLabelValues("primary", "error").Inc()
		c.logger.Warn("Primary model listing failed", "error", err)
	}

	if c.secondary == nil {
		return nil, fmt.Errorf("list models: %w", primaryErr)
	}
	names, err := c.secondary.ListModels(ctx)
	if err != nil {
		metrics.CatalogRefreshTotal.WithLabelValues("secondary", "error").Inc()
		if primaryErr != nil {
			return nil, fmt.Errorf("list models: %w", errors.Join(primaryErr, err))
		}
		return nil, fmt.Errorf("list models: %w", err)
	}
	metrics.CatalogRefreshTotal.WithLabelValues("secondary", "success").Inc()
	return names, nil
}

package cache

import (
	"context"
	"time"

	"github.com/flexprice/billingsession/internal/config"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/getsentry/sentry-go"
	goCache "github.com/patrickmn/go-cache"
)

// DefaultExpiration is the default expiration time for cache entries
const DefaultExpiration = 30 * time.Minute

// DefaultCleanupInterval is how often expired items are removed from the cache
const DefaultCleanupInterval = 1 * time.Hour

// InMemoryCache implements the Cache interface using github.com/patrickmn/go-cache
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
}

// NewInMemoryCache creates a new InMemoryCache instance
func NewInMemoryCache(cfg *config.Configuration, log *logger.Logger) Cache {
	enabled := cfg.Cache.Enabled
	if !enabled {
		log.Info("cache is disabled, every lookup will miss")
	}
	return &InMemoryCache{
		cache:   goCache.New(DefaultExpiration, DefaultCleanupInterval),
		enabled: enabled,
	}
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}
	span := startSpan(ctx, "get", key)
	defer finishSpan(span)

	value, found := c.cache.Get(key)
	if span != nil {
		span.SetData("hit", found)
	}
	return value, found
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.enabled {
		return
	}
	span := startSpan(ctx, "set", key)
	defer finishSpan(span)

	c.cache.Set(key, value, expiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	if !c.enabled {
		return
	}
	c.cache.Delete(key)
}

// Flush removes all items from the cache
func (c *InMemoryCache) Flush(_ context.Context) {
	if !c.enabled {
		return
	}
	c.cache.Flush()
}

// startSpan returns nil if Sentry is not available in the context
func startSpan(ctx context.Context, operation, key string) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	span := sentry.StartSpan(ctx, "cache.inmemory."+operation)
	span.Description = "cache.inmemory." + operation
	span.Op = "db.cache"
	span.SetData("key", key)
	return span
}

func finishSpan(span *sentry.Span) {
	if span != nil {
		span.Finish()
	}
}

package upstream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/purplemusic/catalog/internal/logger"
	"github.com/purplemusic/catalog/internal/textnorm"
)

// CachedFetcher serves repeated searches and browses from a Cache.
// Cache failures fall through to the upstream call.
type CachedFetcher struct {
	fetcher  Fetcher
	cache    Cache
	cacheTTL time.Duration
	logger   *logger.Logger
}

func NewCachedFetcher(fetcher Fetcher, cache Cache, cacheTTL time.Duration, log *logger.Logger) *CachedFetcher {
	if log == nil {
		log = logger.Default()
	}
	return &CachedFetcher{
		fetcher:  fetcher,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.WithComponent("upstream_cache"),
	}
}

func (c *CachedFetcher) Search(ctx context.Context, query string) ([]byte, error) {
	return c.cached(ctx, "search:"+textnorm.Normalize(query), func() ([]byte, error) {
		return c.fetcher.Search(ctx, query)
	})
}

func (c *CachedFetcher) Browse(ctx context.Context, browseID string) ([]byte, error) {
	return c.cached(ctx, "browse:"+browseID, func() ([]byte, error) {
		return c.fetcher.Browse(ctx, browseID)
	})
}

func (c *CachedFetcher) cached(ctx context.Context, key string, fetch func() ([]byte, error)) ([]byte, error) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache read failed", "key", key, "error", err)
	}
	if data != nil {
		return data, nil
	}

	data, err = fetch()
	if err != nil {
		return nil, err
	}

	if json.Valid(data) {
		if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
			c.logger.Warn("Cache write failed", "key", key, "error", err)
		}
	}
	return data, nil
}

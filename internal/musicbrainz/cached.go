package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/purplemusic/catalog/internal/logger"
)

// Cache is the byte cache shared with the upstream fetcher.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// CachedClient remembers lookups, including misses, so reseeding the same
// ids does not hit MusicBrainz again.
type CachedClient struct {
	client ArtistLookup
	cache  Cache
	ttl    time.Duration
	logger *logger.Logger
}

func NewCachedClient(client ArtistLookup, cache Cache, ttl time.Duration, log *logger.Logger) *CachedClient {
	if log == nil {
		log = logger.Default()
	}
	return &CachedClient{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithComponent("musicbrainz"),
	}
}

type cachedArtist struct {
	Artist   *Artist `json:"artist"`
	NotFound bool    `json:"not_found"`
}

func (c *CachedClient) LookupArtist(ctx context.Context, mbid string) (*Artist, error) {
	cacheKey := "mb:artist:" + mbid

	data, err := c.cache.Get(ctx, cacheKey)
	if err != nil {
		c.logger.Warn("MusicBrainz cache read failed", "key", cacheKey, "error", err)
	}
	if data != nil {
		var cached cachedArtist
		if unmarshalErr := json.Unmarshal(data, &cached); unmarshalErr == nil {
			if cached.NotFound {
				return nil, ErrNotFound
			}
			if cached.Artist != nil {
				return cached.Artist, nil
			}
		}
	}

	a, err := c.client.LookupArtist(ctx, mbid)
	var cached cachedArtist
	switch {
	case errors.Is(err, ErrNotFound):
		cached.NotFound = true
	case err != nil:
		return nil, err
	default:
		cached.Artist = a
	}

	if data, marshalErr := json.Marshal(cached); marshalErr == nil {
		if setErr := c.cache.Set(ctx, cacheKey, data, c.ttl); setErr != nil {
			c.logger.Warn("MusicBrainz cache write failed", "key", cacheKey, "error", setErr)
		}
	}
	return a, err
}

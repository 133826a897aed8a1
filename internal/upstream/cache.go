package upstream

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Cache stores raw upstream responses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// CacheStore is the catalog store's response cache table.
type CacheStore interface {
	GetCache(ctx context.Context, key string) ([]byte, error)
	SetCache(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// StoreCache keeps responses in the catalog database.
type StoreCache struct {
	store CacheStore
}

func NewStoreCache(s CacheStore) *StoreCache {
	return &StoreCache{store: s}
}

func (c *StoreCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.store.GetCache(ctx, key)
}

func (c *StoreCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.store.SetCache(ctx, key, data, ttl)
}

// ValkeyCache shares responses between instances through Valkey.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache connects to a valkey:// or redis:// URL and pings it.
func NewValkeyCache(ctx context.Context, url string) (*ValkeyCache, error) {
	opt, err := valkey.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse valkey URL: %w", err)
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}
	c := newValkeyCache(client)
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to valkey: %w", err)
	}
	return c, nil
}

func newValkeyCache(client valkey.Client) *ValkeyCache {
	return &ValkeyCache{client: client, prefix: "catalog:"}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Do(ctx, c.client.B().Get().Key(c.prefix+key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return data, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = c.client.B().Set().Key(c.prefix + key).Value(valkey.BinaryString(data)).Ex(ttl).Build()
	} else {
		cmd = c.client.B().Set().Key(c.prefix + key).Value(valkey.BinaryString(data)).Build()
	}
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

func (c *ValkeyCache) Close() {
	c.client.Close()
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
)

// DefaultProductTTL bounds how stale the cached listing can get
const DefaultProductTTL = time.Minute

const productListKey = "catalog:products:list"

// RedisProductCache caches the public product listing as one JSON document
type RedisProductCache struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

var _ appcatalog.ProductCache = (*RedisProductCache)(nil)

// NewRedisProductCache creates a product cache; ttl <= 0 uses DefaultProductTTL
func NewRedisProductCache(client redis.UniversalClient, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &RedisProductCache{
		client: client,
		key:    productListKey,
		ttl:    ttl,
	}
}

// GetList returns the cached listing; a miss is (nil, false, nil)
func (c *RedisProductCache) GetList(ctx context.Context) ([]appcatalog.ProductResponse, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read product cache: %w", err)
	}

	var products []appcatalog.ProductResponse
	if err := json.Unmarshal(data, &products); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = c.client.Del(ctx, c.key).Err()
		return nil, false, nil
	}
	return products, true, nil
}

// SetList stores the listing with the configured TTL
func (c *RedisProductCache) SetList(ctx context.Context, products []appcatalog.ProductResponse) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode product cache: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write product cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing
func (c *RedisProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("invalidate product cache: %w", err)
	}
	return nil
}

// Package redis caches catalogue lookups in Redis in front of any product source.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/logger"
	"storefront-orders/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "product:"

// Cmdable is the slice of the redis client the cache needs.
type Cmdable interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// ProductCache is a read-through cache. Redis failures never fail a lookup;
// they only fall through to the wrapped source.
type ProductCache struct {
	rdb    Cmdable
	source repository.ProductRepository
	ttl    time.Duration
}

var _ repository.ProductRepository = (*ProductCache)(nil)

func NewProductCache(rdb Cmdable, source repository.ProductRepository, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, source: source, ttl: ttl}
}

// NewClient builds the redis client with the pool settings used in production.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

func cacheKey(id string) string { return keyPrefix + id }

func (c *ProductCache) FindProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	unique := repository.UniqueIDs(ids)
	if len(unique) == 0 {
		return nil, nil
	}
	log := logger.FromCtx(ctx)

	keys := make([]string, len(unique))
	for i, id := range unique {
		keys[i] = cacheKey(id)
	}

	out := make([]domain.Product, 0, len(unique))
	missing := unique

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		log.Warn("product cache read failed", zap.Error(err))
	} else {
		missing = nil
		for i, v := range vals {
			p, ok := decode(v)
			if !ok {
				missing = append(missing, unique[i])
				continue
			}
			p.ID = unique[i]
			out = append(out, p)
		}
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.source.FindProductsByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, p := range fetched {
		c.store(ctx, p)
	}
	return append(out, fetched...), nil
}

// Warmup loads ids from the source into the cache.
func (c *ProductCache) Warmup(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	products, err := c.source.FindProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range products {
		c.store(ctx, p)
	}
	logger.FromCtx(ctx).Info("product cache warmed", zap.Int("requested", len(ids)), zap.Int("cached", len(products)))
	return nil
}

func (c *ProductCache) store(ctx context.Context, p domain.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(p.ID), data, c.ttl).Err(); err != nil {
		logger.FromCtx(ctx).Warn("product cache write failed", zap.String("productId", p.ID), zap.Error(err))
	}
}

func decode(v interface{}) (domain.Product, bool) {
	s, ok := v.(string)
	if !ok {
		return domain.Product{}, false
	}
	var p domain.Product
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return domain.Product{}, false
	}
	return p, true
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
	"go.uber.org/zap"
)

const (
	ProductCachePrefix     = "product:detail:"
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"

	DefaultCacheTTL = 10 * time.Minute
)

// cacheStore is the slice of Redis the decorator relies on.
type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

type redisStore struct {
	client *redis.Client
}

func (s redisStore) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s redisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

// CachedRepository is a read-through Redis cache in front of another backend.
// List and detail entries are namespaced by a version counter that every mutation
// bumps. A load that raced a mutation writes under the old version, so stale
// entries are never read again and simply expire. Redis failures are logged and
// the call falls through to the wrapped backend.
type CachedRepository struct {
	next  ProductRepository
	store cacheStore
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedRepository(next ProductRepository, client *redis.Client, ttl time.Duration) *CachedRepository {
	return newCachedRepository(next, redisStore{client: client}, ttl)
}

func newCachedRepository(next ProductRepository, store cacheStore, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedRepository{next: next, store: store, ttl: ttl, log: zap.L().Named("cache")}
}

func detailKey(version, id int64) string {
	return fmt.Sprintf("%s%d:%d", ProductCachePrefix, version, id)
}

func listKey(version int64, category string) string {
	if category == "" {
		return fmt.Sprintf("%s%d:all", ProductListCachePrefix, version)
	}
	return fmt.Sprintf("%s%d:cat:%s", ProductListCachePrefix, version, strings.ToLower(category))
}

func (c *CachedRepository) version(ctx context.Context) (int64, error) {
	raw, err := c.store.Get(ctx, CacheVersionKey)
	if errors.Is(err, redis.Nil) {
		// Seeding from the clock keeps a lost counter from reusing old list keys.
		seed := time.Now().UnixNano()
		if err := c.store.Set(ctx, CacheVersionKey, strconv.FormatInt(seed, 10), 0); err != nil {
			return 0, err
		}
		return seed, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *CachedRepository) readJSON(ctx context.Context, key string, out interface{}) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.log.Warn("failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedRepository) writeJSON(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("failed to marshal value for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, string(raw), c.ttl); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedRepository) list(ctx context.Context, category string, load func() ([]models.Product, error)) ([]models.Product, error) {
	ver, err := c.version(ctx)
	if err != nil {
		c.log.Warn("cache version unavailable", zap.Error(err))
		return load()
	}

	key := listKey(ver, category)
	var cached []models.Product
	if c.readJSON(ctx, key, &cached) {
		return cached, nil
	}

	products, err := load()
	if err != nil {
		return nil, err
	}
	c.writeJSON(ctx, key, products)
	return products, nil
}

func (c *CachedRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return c.list(ctx, "", func() ([]models.Product, error) { return c.next.GetAll(ctx) })
}

func (c *CachedRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return c.list(ctx, category, func() ([]models.Product, error) { return c.next.GetByCategory(ctx, category) })
}

func (c *CachedRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	ver, err := c.version(ctx)
	if err != nil {
		c.log.Warn("cache version unavailable", zap.Error(err))
		return c.next.GetByID(ctx, id)
	}

	key := detailKey(ver, id)
	var cached models.Product
	if c.readJSON(ctx, key, &cached) {
		return &cached, nil
	}

	p, err := c.next.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	c.writeJSON(ctx, key, p)
	return p, nil
}

func (c *CachedRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	p, err := c.next.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, p.ID)
	return p, nil
}

func (c *CachedRepository) Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	p, err := c.next.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return p, nil
}

func (c *CachedRepository) Delete(ctx context.Context, id int64) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// invalidate bumps the version, retiring every cached list and detail entry.
func (c *CachedRepository) invalidate(ctx context.Context, id int64) {
	if ver, err := c.store.Incr(ctx, CacheVersionKey); err != nil {
		c.log.Error("failed to invalidate product cache", zap.Int64("product_id", id), zap.Error(err))
	} else {
		c.log.Debug("cache invalidated", zap.Int64("product_id", id), zap.Int64("new_version", ver))
	}
}

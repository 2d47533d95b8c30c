package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"ordermgmt/internal/domain/model"
	"ordermgmt/internal/infra/logger"
	"ordermgmt/internal/repository"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const catalogKey = "catalog:products"

var ErrCacheMiss = errors.New("cache miss")

// CatalogCache keeps the product list in Redis in front of another CatalogReader.
type CatalogCache struct {
	client  *redis.Client
	next    repository.CatalogReader
	baseTTL time.Duration
	log     *logger.Logger
	group   singleflight.Group
}

func NewCatalogCache(client *redis.Client, next repository.CatalogReader, ttl time.Duration, log *logger.Logger) *CatalogCache {
	return &CatalogCache{
		client:  client,
		next:    next,
		baseTTL: ttl,
		log:     log.With("component", "catalog_cache"),
	}
}

func (c *CatalogCache) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := c.get(ctx)
	if err == nil {
		return products, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("catalog cache read failed", "error", err)
	}

	v, err, _ := c.group.Do(catalogKey, func() (interface{}, error) {
		products, err := c.next.GetAllProducts(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.set(ctx, products); err != nil {
			c.log.Warn("catalog cache write failed", "error", err)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Product), nil
}

func (c *CatalogCache) FindProductByName(ctx context.Context, name string) (model.Product, bool, error) {
	products, err := c.GetAllProducts(ctx)
	if err != nil {
		return model.Product{}, false, err
	}
	for _, p := range products {
		if p.Name == name {
			return p, true, nil
		}
	}
	return model.Product{}, false, nil
}

// Invalidate drops the cached list.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *CatalogCache) get(ctx context.Context) ([]model.Product, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	return products, nil
}

func (c *CatalogCache) set(ctx context.Context, products []model.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}
	if err := c.client.Set(ctx, catalogKey, data, c.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// up to 25% jitter so replicas do not expire together
func (c *CatalogCache) ttl() time.Duration {
	if c.baseTTL <= 0 {
		return time.Minute
	}
	jitter := time.Duration(rand.Int63n(int64(c.baseTTL)/4 + 1))
	return c.baseTTL + jitter
}

var _ repository.CatalogReader = (*CatalogCache)(nil)

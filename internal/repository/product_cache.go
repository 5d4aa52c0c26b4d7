package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/serdchef/coskunyayci-backend/internal/models"
)

const (
	productCachePrefix     = "product:detail:"
	productListCachePrefix = "products:list:"
)

// ProductCache caches catalog reads in Redis. All operations are best-effort;
// a cache failure never fails the request.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	return &ProductCache{client: client, ttl: ttl, logger: logger}
}

func listKey(filters models.ProductFilters, page, limit int) string {
	return fmt.Sprintf("%sc=%s:r=%s:p=%d:l=%d",
		productListCachePrefix, filters.Category, filters.Region, page, limit)
}

func (c *ProductCache) GetList(ctx context.Context, filters models.ProductFilters, page, limit int) ([]models.Product, int64, bool) {
	data, err := c.client.Get(ctx, listKey(filters, page, limit)).Result()
	if err != nil {
		return nil, 0, false
	}

	var cached struct {
		Products []models.Product `json:"products"`
		Total    int64            `json:"total"`
	}
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		c.logger.Warn("failed to unmarshal cached product list", zap.Error(err))
		return nil, 0, false
	}
	return cached.Products, cached.Total, true
}

// SetListAsync writes the list entry off the request path.
func (c *ProductCache) SetListAsync(filters models.ProductFilters, page, limit int, products []models.Product, total int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		payload := struct {
			Products []models.Product `json:"products"`
			Total    int64            `json:"total"`
		}{products, total}

		data, err := json.Marshal(payload)
		if err != nil {
			c.logger.Warn("failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := c.client.Set(ctx, listKey(filters, page, limit), data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache product list", zap.Error(err))
		}
	}()
}

func (c *ProductCache) GetProduct(ctx context.Context, sku string) (*models.Product, bool) {
	data, err := c.client.Get(ctx, productCachePrefix+sku).Result()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		return nil, false
	}
	return &product, true
}

func (c *ProductCache) SetProductAsync(product *models.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(product)
		if err != nil {
			return
		}
		if err := c.client.Set(ctx, productCachePrefix+product.SKU, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache product", zap.String("sku", product.SKU), zap.Error(err))
		}
	}()
}

// Invalidate drops cached entries after admin writes. List keys are cleared by
// pattern scan since filters fan out.
func (c *ProductCache) Invalidate(ctx context.Context, sku string) {
	if err := c.client.Del(ctx, productCachePrefix+sku).Err(); err != nil {
		c.logger.Warn("failed to invalidate product cache", zap.String("sku", sku), zap.Error(err))
	}

	iter := c.client.Scan(ctx, 0, productListCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
}

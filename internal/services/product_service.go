package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/serdchef/coskunyayci-backend/internal/catalog"
	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
)

type ProductPage struct {
	Products []models.Product `json:"products"`
	Meta     PageMeta         `json:"meta"`
	Fallback bool             `json:"fallback,omitempty"` // true when served from the static catalog
}

type ProductService struct {
	repo   repository.ProductRepository
	cache  *repository.ProductCache
	logger *zap.Logger
}

func NewProductService(repo repository.ProductRepository, cache *repository.ProductCache, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, logger: logger}
}

// List serves the catalog: Redis cache first, then Postgres, then the static
// fallback catalog when the database is unreachable. The fallback trades
// correctness for availability on the read path.
func (s *ProductService) List(ctx context.Context, filters models.ProductFilters, page, limit int) (*ProductPage, *ServiceError) {
	if s.cache != nil {
		if products, total, ok := s.cache.GetList(ctx, filters, page, limit); ok {
			return &ProductPage{Products: products, Meta: buildMeta(page, limit, total)}, nil
		}
	}

	products, total, err := s.repo.FindAll(ctx, filters, page, limit)
	if err != nil {
		s.logger.Warn("catalog read failed, serving static fallback", zap.Error(err))
		fallback := filterFallback(catalog.Fallback(), filters)
		return &ProductPage{
			Products: fallback,
			Meta:     buildMeta(1, len(fallback), int64(len(fallback))),
			Fallback: true,
		}, nil
	}

	if s.cache != nil {
		s.cache.SetListAsync(filters, page, limit, products, total)
	}
	return &ProductPage{Products: products, Meta: buildMeta(page, limit, total)}, nil
}

// GetBySKU returns a product with variants, falling back to the static
// catalog when Postgres is down.
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*models.Product, *ServiceError) {
	if s.cache != nil {
		if product, ok := s.cache.GetProduct(ctx, sku); ok {
			return product, nil
		}
	}

	product, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Warn("product read failed, trying static fallback", zap.String("sku", sku), zap.Error(err))
		if fb, ok := catalog.FallbackBySKU(sku); ok {
			return fb, nil
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}

	if s.cache != nil {
		s.cache.SetProductAsync(product)
	}
	return product, nil
}

// Create is the admin catalog write.
func (s *ProductService) Create(ctx context.Context, product *models.Product) *ServiceError {
	if product.SKU == "" || product.Name == "" {
		return &ServiceError{StatusCode: 400, Message: "sku and name are required"}
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ServiceError{StatusCode: 409, Message: "SKU already exists"}
		}
		s.logger.Error("product create failed", zap.String("sku", product.SKU), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to create product"}
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, product.SKU)
	}
	return nil
}

func (s *ProductService) Update(ctx context.Context, product *models.Product) *ServiceError {
	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("product update failed", zap.String("sku", product.SKU), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, product.SKU)
	}
	return nil
}

// Deactivate soft-deletes by flipping Active off; orders keep their captured
// line items either way.
func (s *ProductService) Deactivate(ctx context.Context, sku string) *ServiceError {
	if err := s.repo.Deactivate(ctx, sku); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("product deactivate failed", zap.String("sku", sku), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to deactivate product"}
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, sku)
	}
	return nil
}

func filterFallback(products []models.Product, filters models.ProductFilters) []models.Product {
	if filters.Category == "" && filters.Region == "" {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		if filters.Region != "" && p.Region != filters.Region {
			continue
		}
		out = append(out, p)
	}
	return out
}

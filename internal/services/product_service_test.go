package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

// fakeProductRepo drives the service without a database.
type fakeProductRepo struct {
	products []models.Product
	err      error
}

func (f *fakeProductRepo) FindAll(ctx context.Context, filters models.ProductFilters, page, limit int) ([]models.Product, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.products, int64(len(f.products)), nil
}

func (f *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].SKU == sku {
			return &f.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error { return f.err }
func (f *fakeProductRepo) Update(ctx context.Context, product *models.Product) error { return f.err }
func (f *fakeProductRepo) Deactivate(ctx context.Context, sku string) error {
	if f.err != nil {
		return f.err
	}
	return gorm.ErrRecordNotFound
}

func TestProductList_ServesDatabase(t *testing.T) {
	repo := &fakeProductRepo{products: []models.Product{
		{SKU: "BKLV-FISTIK", Name: "Fıstıklı Baklava", Active: true},
	}}
	svc := services.NewProductService(repo, nil, zap.NewNop())

	page, svcErr := svc.List(context.Background(), models.ProductFilters{}, 1, 20)
	require.Nil(t, svcErr)
	assert.False(t, page.Fallback)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "BKLV-FISTIK", page.Products[0].SKU)
}

func TestProductList_FallsBackWhenDatabaseDown(t *testing.T) {
	repo := &fakeProductRepo{err: errors.New("connection refused")}
	svc := services.NewProductService(repo, nil, zap.NewNop())

	page, svcErr := svc.List(context.Background(), models.ProductFilters{}, 1, 20)
	require.Nil(t, svcErr)
	assert.True(t, page.Fallback)
	assert.NotEmpty(t, page.Products, "static catalog must not be empty")
}

func TestProductList_FallbackHonorsFilters(t *testing.T) {
	repo := &fakeProductRepo{err: errors.New("connection refused")}
	svc := services.NewProductService(repo, nil, zap.NewNop())

	page, svcErr := svc.List(context.Background(), models.ProductFilters{Category: "baklava"}, 1, 20)
	require.Nil(t, svcErr)
	assert.True(t, page.Fallback)
	for _, p := range page.Products {
		assert.Equal(t, "baklava", p.Category)
	}
}

func TestProductGetBySKU_NotFound(t *testing.T) {
	repo := &fakeProductRepo{}
	svc := services.NewProductService(repo, nil, zap.NewNop())

	_, svcErr := svc.GetBySKU(context.Background(), "NOPE")
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestProductGetBySKU_FallbackWhenDatabaseDown(t *testing.T) {
	repo := &fakeProductRepo{err: errors.New("connection refused")}
	svc := services.NewProductService(repo, nil, zap.NewNop())

	product, svcErr := svc.GetBySKU(context.Background(), "BKLV-FISTIK")
	require.Nil(t, svcErr)
	assert.Equal(t, "Fıstıklı Baklava", product.Name)

	_, svcErr = svc.GetBySKU(context.Background(), "NOT-IN-FALLBACK")
	require.NotNil(t, svcErr)
	assert.Equal(t, 500, svcErr.StatusCode)
}

func TestProductCreate_Validation(t *testing.T) {
	svc := services.NewProductService(&fakeProductRepo{}, nil, zap.NewNop())

	svcErr := svc.Create(context.Background(), &models.Product{Name: "No SKU"})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestProductDeactivate_NotFound(t *testing.T) {
	svc := services.NewProductService(&fakeProductRepo{}, nil, zap.NewNop())

	svcErr := svc.Deactivate(context.Background(), "NOPE")
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

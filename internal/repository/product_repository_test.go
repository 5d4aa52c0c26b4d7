package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestFindBySKU_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewProductRepository(gormDB)

	productID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "sku", "name", "category", "base_price", "active"}).
			AddRow(productID, "BKLV-FISTIK", "Fıstıklı Baklava", "baklava", int64(45000), true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "product_variants"`)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "product_id", "size_label", "price", "stock"}).
			AddRow(uuid.New(), productID, "500g", int64(45000), 40).
			AddRow(uuid.New(), productID, "1kg", int64(85000), 25))

	product, err := repo.FindBySKU(context.Background(), "BKLV-FISTIK")
	require.NoError(t, err)
	assert.Equal(t, "Fıstıklı Baklava", product.Name)
	assert.Len(t, product.Variants, 2)
	assert.Equal(t, int64(85000), product.Variants[1].Price)
}

func TestFindBySKU_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewProductRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	product, err := repo.FindBySKU(context.Background(), "NOPE")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, product)
}

func TestFindAll_CountsAndPages(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewProductRepository(gormDB)

	productID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "sku", "name", "active"}).
			AddRow(productID, "BKLV-FISTIK", "Fıstıklı Baklava", true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "product_variants"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id"}))

	products, total, err := repo.FindAll(context.Background(), models.ProductFilters{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	assert.Len(t, products, 1)
}

func TestDeactivate_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Deactivate(context.Background(), "NOPE")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeactivate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Deactivate(context.Background(), "BKLV-FISTIK")
	assert.NoError(t, err)
}

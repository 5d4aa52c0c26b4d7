package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/serdchef/coskunyayci-backend/internal/controllers"
	"github.com/serdchef/coskunyayci-backend/internal/middleware"
	"github.com/serdchef/coskunyayci-backend/internal/queue"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

type noopProducer struct{}

func (noopProducer) Publish(ctx context.Context, job queue.NotificationJob) error { return nil }
func (noopProducer) Close() error                                                 { return nil }

func newQuickOrderRouter(t *testing.T, apiKey string, rateLimit int) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	orderService := services.NewOrderService(
		repository.NewOrderRepository(gormDB),
		repository.NewProductRepository(gormDB),
		noopProducer{},
		zap.NewNop(),
	)
	controller := controllers.NewQuickOrderController(
		services.NewQuickOrderService(orderService, zap.NewNop()),
	)

	router := gin.New()
	router.POST("/quick-order",
		middleware.APIKey(apiKey),
		middleware.QuickOrderRateLimit(rateLimit, time.Minute),
		controller.Create,
	)
	return router, mock
}

func postQuickOrder(router *gin.Engine, body, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/quick-order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-KEY", apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQuickOrder_MissingFields(t *testing.T) {
	router, _ := newQuickOrderRouter(t, "", 100)

	for _, body := range []string{
		`{}`,
		`{"sku": "BKLV-FISTIK"}`,
		`{"phone": "05321234567"}`,
		`{"items": [], "customer": {"phone": "05321234567"}}`,
		`not json at all`,
	} {
		w := postQuickOrder(router, body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "sku and phone required", resp["error"])
	}
}

func TestQuickOrder_RequiresAPIKey(t *testing.T) {
	router, _ := newQuickOrderRouter(t, "secret-key", 100)

	w := postQuickOrder(router, `{"sku": "BKLV-FISTIK", "phone": "05321234567"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postQuickOrder(router, `{"sku": "BKLV-FISTIK", "phone": "05321234567"}`, "wrong-key")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQuickOrder_RateLimited(t *testing.T) {
	router, _ := newQuickOrderRouter(t, "", 2)

	// Validation failures still count against the window.
	postQuickOrder(router, `{}`, "")
	postQuickOrder(router, `{}`, "")
	w := postQuickOrder(router, `{}`, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestQuickOrder_Success(t *testing.T) {
	router, mock := newQuickOrderRouter(t, "secret-key", 100)
	productID, variantID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "sku", "name", "base_price", "active"}).
			AddRow(productID, "BKLV-FISTIK", "Fıstıklı Baklava", int64(45000), true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "product_variants"`)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "product_id", "size_label", "price", "stock"}).
			AddRow(variantID, productID, "500g", int64(45000), 40))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product_variants" SET "stock"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	w := postQuickOrder(router, `{"sku": "BKLV-FISTIK", "phone": "05321234567", "name": "Ayşe"}`, "secret-key")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success     bool   `json:"success"`
		OrderID     string `json:"orderId"`
		OrderNumber string `json:"orderNumber"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.OrderID)
	assert.True(t, strings.HasPrefix(resp.OrderNumber, "CSK-"))
}

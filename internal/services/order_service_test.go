package services_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/queue"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

type capturingProducer struct {
	jobs []queue.NotificationJob
}

func (p *capturingProducer) Publish(ctx context.Context, job queue.NotificationJob) error {
	p.jobs = append(p.jobs, job)
	return nil
}

func (p *capturingProducer) Close() error { return nil }

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func newTestOrderService(t *testing.T) (*services.OrderService, sqlmock.Sqlmock, *capturingProducer) {
	t.Helper()
	gormDB, mock := setupMockDB(t)
	producer := &capturingProducer{}
	svc := services.NewOrderService(
		repository.NewOrderRepository(gormDB),
		repository.NewProductRepository(gormDB),
		producer,
		zap.NewNop(),
	)
	return svc, mock, producer
}

func expectProductLookup(mock sqlmock.Sqlmock, productID, variantID uuid.UUID) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "sku", "name", "category", "region", "base_price", "active"}).
			AddRow(productID, "BKLV-FISTIK", "Fıstıklı Baklava", "baklava", "Gaziantep", int64(45000), true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "product_variants"`)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "product_id", "size_label", "price", "stock"}).
			AddRow(variantID, productID, "500g", int64(45000), 40))
}

func TestCreateOrder_CourierAddsShippingFee(t *testing.T) {
	svc, mock, producer := newTestOrderService(t)
	productID, variantID := uuid.New(), uuid.New()
	orderID := uuid.New()

	expectProductLookup(mock, productID, variantID)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product_variants" SET "stock"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(orderID))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	order, svcErr := svc.CreateOrder(context.Background(), &services.OrderDraft{
		CustomerName: "Ayşe Yılmaz",
		Phone:        "05321234567",
		Items:        []services.OrderDraftItem{{SKU: "BKLV-FISTIK", Quantity: 2}},
		DeliveryType: models.DeliveryCourier,
		Address:      "Karşıyaka Mah. 12, İzmir",
		Source:       models.SourceWeb,
		PayMethod:    models.PaymentMethodCash,
	})
	require.Nil(t, svcErr)
	require.NotNil(t, order)

	// 2 x 45000 kuruş plus the flat 5000 kuruş courier fee.
	assert.Equal(t, int64(95000), order.TotalPrice)
	assert.Equal(t, int64(services.CourierShippingFee), order.ShippingFee)
	assert.Equal(t, models.StatusPending, order.Status)

	require.Len(t, producer.jobs, 1)
	assert.Equal(t, models.EventOrderCreated, producer.jobs[0].Event)
	assert.Equal(t, order.OrderNumber, producer.jobs[0].OrderNumber)
}

func TestCreateOrder_PickupHasNoShippingFee(t *testing.T) {
	svc, mock, _ := newTestOrderService(t)
	productID, variantID := uuid.New(), uuid.New()

	expectProductLookup(mock, productID, variantID)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product_variants" SET "stock"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	order, svcErr := svc.CreateOrder(context.Background(), &services.OrderDraft{
		Phone:        "05321234567",
		Items:        []services.OrderDraftItem{{SKU: "BKLV-FISTIK", Quantity: 1}},
		DeliveryType: models.DeliveryPickup,
		Source:       models.SourceQuick,
		PayMethod:    models.PaymentMethodCash,
	})
	require.Nil(t, svcErr)
	assert.Equal(t, int64(45000), order.TotalPrice)
	assert.Equal(t, int64(0), order.ShippingFee)
}

func TestCreateOrder_QuickOrderSkipsShippingFee(t *testing.T) {
	svc, mock, producer := newTestOrderService(t)
	productID, variantID := uuid.New(), uuid.New()

	expectProductLookup(mock, productID, variantID)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product_variants" SET "stock"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	order, svcErr := svc.CreateOrder(context.Background(), &services.OrderDraft{
		Phone:        "05321234567",
		Items:        []services.OrderDraftItem{{SKU: "BKLV-FISTIK", Quantity: 1}},
		DeliveryType: models.DeliveryCourier,
		Source:       models.SourceQuick,
		PayMethod:    models.PaymentMethodCash,
	})
	require.Nil(t, svcErr)

	// Charged at the first variant price, no courier surcharge.
	assert.Equal(t, int64(45000), order.TotalPrice)
	assert.Equal(t, int64(0), order.ShippingFee)

	require.Len(t, producer.jobs, 1)
	assert.Equal(t, "450.00", producer.jobs[0].Data["total"])
}

func TestCreateOrder_B2BChargedAtQuotedTotal(t *testing.T) {
	svc, mock, _ := newTestOrderService(t)
	productID, variantID := uuid.New(), uuid.New()

	expectProductLookup(mock, productID, variantID)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product_variants" SET "stock"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	order, svcErr := svc.CreateOrder(context.Background(), &services.OrderDraft{
		CustomerName:    "Lokum Pastaneleri",
		Phone:           "05321234567",
		Items:           []services.OrderDraftItem{{SKU: "BKLV-FISTIK", Quantity: 2}},
		DeliveryType:    models.DeliveryCourier,
		Address:         "Sanayi Sitesi 4, Ankara",
		Source:          models.SourceB2B,
		PayMethod:       models.PaymentMethodCash,
		DiscountedTotal: 80750,
	})
	require.Nil(t, svcErr)

	// The quoted discounted total is the full charge.
	assert.Equal(t, int64(80750), order.TotalPrice)
	assert.Equal(t, int64(0), order.ShippingFee)
}

func TestCreateOrder_InsufficientStockRollsBack(t *testing.T) {
	svc, mock, producer := newTestOrderService(t)
	productID, variantID := uuid.New(), uuid.New()

	expectProductLookup(mock, productID, variantID)

	mock.ExpectBegin()
	// Conditional decrement matches no row when stock is short.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product_variants" SET "stock"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	order, svcErr := svc.CreateOrder(context.Background(), &services.OrderDraft{
		Phone:        "05321234567",
		Items:        []services.OrderDraftItem{{SKU: "BKLV-FISTIK", Quantity: 999}},
		DeliveryType: models.DeliveryPickup,
		Source:       models.SourceWeb,
		PayMethod:    models.PaymentMethodCash,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, "Insufficient stock", svcErr.Message)
	assert.Nil(t, order)
	assert.Empty(t, producer.jobs)
}

func TestCreateOrder_UnknownSKU(t *testing.T) {
	svc, mock, _ := newTestOrderService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, svcErr := svc.CreateOrder(context.Background(), &services.OrderDraft{
		Phone:     "05321234567",
		Items:     []services.OrderDraftItem{{SKU: "NOPE", Quantity: 1}},
		Source:    models.SourceWeb,
		PayMethod: models.PaymentMethodCash,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestCreateOrder_RequiresItemsAndContact(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	_, svcErr := svc.CreateOrder(context.Background(), &services.OrderDraft{
		Phone: "05321234567",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	_, svcErr = svc.CreateOrder(context.Background(), &services.OrderDraft{
		Items: []services.OrderDraftItem{{SKU: "BKLV-FISTIK", Quantity: 1}},
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func expectOrderLookup(mock sqlmock.Sqlmock, orderID uuid.UUID, status string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "order_number", "phone", "status", "total_price"}).
			AddRow(orderID, "CSK-1700000000-0042", "05321234567", status, int64(95000)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))
}

func TestUpdateStatus_ValidTransition(t *testing.T) {
	svc, mock, producer := newTestOrderService(t)
	orderID := uuid.New()

	expectOrderLookup(mock, orderID, models.StatusPending)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, svcErr := svc.UpdateStatus(context.Background(), orderID, models.StatusConfirmed)
	require.Nil(t, svcErr)
	assert.Equal(t, models.StatusConfirmed, order.Status)

	require.Len(t, producer.jobs, 1)
	assert.Equal(t, models.EventOrderConfirmed, producer.jobs[0].Event)
}

func TestUpdateStatus_RejectsSkippedState(t *testing.T) {
	svc, mock, producer := newTestOrderService(t)
	orderID := uuid.New()

	expectOrderLookup(mock, orderID, models.StatusPending)

	_, svcErr := svc.UpdateStatus(context.Background(), orderID, models.StatusReady)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Empty(t, producer.jobs)
}

func TestUpdateStatus_RejectsLateCancellation(t *testing.T) {
	svc, mock, _ := newTestOrderService(t)
	orderID := uuid.New()

	expectOrderLookup(mock, orderID, models.StatusInTransit)

	_, svcErr := svc.UpdateStatus(context.Background(), orderID, models.StatusCancelled)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestUpdateStatus_TerminalStateLocked(t *testing.T) {
	svc, mock, _ := newTestOrderService(t)
	orderID := uuid.New()

	expectOrderLookup(mock, orderID, models.StatusDelivered)

	_, svcErr := svc.UpdateStatus(context.Background(), orderID, models.StatusConfirmed)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

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

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

type memorySessionStore struct {
	sessions map[string]*models.ChatSession
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]*models.ChatSession{}}
}

func (m *memorySessionStore) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	return m.sessions[id], nil
}

func (m *memorySessionStore) Save(ctx context.Context, session *models.ChatSession) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *memorySessionStore) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func newTestChatbot(t *testing.T) (*services.ChatbotService, *memorySessionStore, sqlmock.Sqlmock, *capturingProducer) {
	t.Helper()
	gormDB, mock := setupMockDB(t)

	productRepo := &fakeProductRepo{products: []models.Product{
		{
			ID:        uuid.New(),
			SKU:       "BKLV-FISTIK",
			Name:      "Fıstıklı Baklava",
			Category:  "baklava",
			BasePrice: 45000,
			Active:    true,
			Variants: []models.ProductVariant{
				{ID: uuid.New(), SizeLabel: "500g", Price: 45000, Stock: 40},
			},
		},
	}}

	producer := &capturingProducer{}
	orders := services.NewOrderService(
		repository.NewOrderRepository(gormDB),
		productRepo,
		producer,
		zap.NewNop(),
	)
	products := services.NewProductService(productRepo, nil, zap.NewNop())
	store := newMemorySessionStore()
	bot := services.NewChatbotService(store, products, orders, zap.NewNop())
	return bot, store, mock, producer
}

func TestChatbot_FullConversationSubmitsOneOrder(t *testing.T) {
	bot, store, mock, producer := newTestChatbot(t)
	ctx := context.Background()

	turn := func(sessionID, message string) *services.ChatReply {
		t.Helper()
		reply, svcErr := bot.Handle(ctx, sessionID, message, nil)
		require.Nil(t, svcErr)
		require.NotNil(t, reply)
		return reply
	}

	reply := turn("", "Merhaba, fıstıklı baklava sipariş etmek istiyorum")
	sid := reply.SessionID
	require.NotEmpty(t, sid)
	assert.Equal(t, "BKLV-FISTIK", reply.Slots[models.SlotProduct])
	assert.False(t, reply.Complete)

	reply = turn(sid, "2 kutu lütfen")
	assert.Equal(t, "2", reply.Slots[models.SlotQuantity])
	assert.False(t, reply.Complete)

	reply = turn(sid, "kurye ile gönderin")
	assert.Equal(t, models.DeliveryCourier, reply.Slots[models.SlotDelivery])
	assert.False(t, reply.Complete)

	reply = turn(sid, "Karşıyaka Mahallesi No:12 İzmir")
	assert.NotEmpty(t, reply.Slots[models.SlotAddress])
	assert.False(t, reply.Complete)

	reply = turn(sid, "0532 123 45 67")
	assert.Equal(t, "05321234567", reply.Slots[models.SlotPhone])
	assert.False(t, reply.Complete)

	// Five turns in, nothing has been ordered yet.
	assert.Empty(t, producer.jobs)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product_variants" SET "stock"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	reply = turn(sid, "kapıda nakit")
	assert.True(t, reply.Complete)
	assert.NotEmpty(t, reply.OrderNumber)

	// Exactly one order went out and the session is gone.
	require.Len(t, producer.jobs, 1)
	assert.Equal(t, models.EventOrderCreated, producer.jobs[0].Event)
	assert.Equal(t, reply.OrderNumber, producer.jobs[0].OrderNumber)
	assert.NotContains(t, store.sessions, sid)
}

func TestChatbot_PartialSlotsPromptWithoutOrdering(t *testing.T) {
	bot, store, _, producer := newTestChatbot(t)
	ctx := context.Background()

	reply, svcErr := bot.Handle(ctx, "", "fıstıklı baklava istiyorum", nil)
	require.Nil(t, svcErr)
	assert.False(t, reply.Complete)
	assert.NotEmpty(t, reply.Reply)

	reply, svcErr = bot.Handle(ctx, reply.SessionID, "3 kutu", nil)
	require.Nil(t, svcErr)
	assert.False(t, reply.Complete)
	assert.Empty(t, reply.OrderNumber)

	// The session keeps accumulating; no order has been placed.
	assert.Empty(t, producer.jobs)
	assert.Contains(t, store.sessions, reply.SessionID)
}

func TestChatbot_EmptyMessageRejected(t *testing.T) {
	bot, _, _, _ := newTestChatbot(t)

	_, svcErr := bot.Handle(context.Background(), "", "   ", nil)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

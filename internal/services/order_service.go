package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/queue"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
)

// CourierShippingFee is the flat courier charge in kuruş (₺50).
const CourierShippingFee = 5000

// OrderDraft is the normalized input for order creation, shared by checkout,
// quick-order, chatbot and B2B paths.
type OrderDraft struct {
	UserID       *uuid.UUID
	CustomerName string
	Phone        string
	Items        []OrderDraftItem
	DeliveryType string
	Address      string
	Source       string
	PayMethod    string
	// DiscountedTotal overrides the computed items total when > 0 (B2B quotes).
	DiscountedTotal int64
}

type OrderDraftItem struct {
	SKU       string
	SizeLabel string
	Quantity  int
}

type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Meta   PageMeta       `json:"meta"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	producer    queue.Producer
	logger      *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	producer queue.Producer,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		producer:    producer,
		logger:      logger,
	}
}

// NewOrderNumber builds a human-readable order number.
func NewOrderNumber() string {
	return fmt.Sprintf("CSK-%d-%04d", time.Now().Unix(), rand.Intn(10000))
}

// CreateOrder resolves the draft against the catalog, decrements variant stock
// and inserts the order in one transaction, then enqueues an order_created
// notification. Stock never goes partial: any shortage rolls the whole order
// back.
func (s *OrderService) CreateOrder(ctx context.Context, draft *OrderDraft) (*models.Order, *ServiceError) {
	if len(draft.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "At least one item is required"}
	}
	if draft.Phone == "" && draft.UserID == nil {
		return nil, &ServiceError{StatusCode: 400, Message: "A contact phone is required for guest orders"}
	}

	var itemsTotal int64
	orderItems := make([]models.OrderItem, 0, len(draft.Items))

	type decrement struct {
		variantID uuid.UUID
		quantity  int
	}
	decrements := make([]decrement, 0, len(draft.Items))

	for _, item := range draft.Items {
		if item.Quantity < 1 {
			return nil, &ServiceError{StatusCode: 400, Message: "Quantity must be at least 1"}
		}

		product, err := s.productRepo.FindBySKU(ctx, item.SKU)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ServiceError{StatusCode: 404, Message: fmt.Sprintf("Product %s not found", item.SKU)}
			}
			s.logger.Error("product lookup failed", zap.String("sku", item.SKU), zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
		}
		if len(product.Variants) == 0 {
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Product %s has no purchasable variant", item.SKU)}
		}

		variant := product.Variants[0]
		if item.SizeLabel != "" {
			found := false
			for _, v := range product.Variants {
				if v.SizeLabel == item.SizeLabel {
					variant = v
					found = true
					break
				}
			}
			if !found {
				return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Unknown size %s for %s", item.SizeLabel, item.SKU)}
			}
		}

		unitPrice := variant.EffectivePrice(product)
		itemsTotal += unitPrice * int64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			SKU:         product.SKU,
			ProductName: product.Name,
			SizeLabel:   variant.SizeLabel,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
		})
		decrements = append(decrements, decrement{variantID: variant.ID, quantity: item.Quantity})
	}

	total := itemsTotal
	if draft.DiscountedTotal > 0 {
		total = draft.DiscountedTotal
	}

	// Quick orders are charged at the variant price and B2B orders at the
	// quoted total; the flat courier fee applies only to checkout-style
	// orders (web, chatbot).
	var shippingFee int64
	if draft.DeliveryType == models.DeliveryCourier &&
		draft.Source != models.SourceQuick && draft.Source != models.SourceB2B {
		shippingFee = CourierShippingFee
	}
	total += shippingFee

	order := &models.Order{
		OrderNumber:  NewOrderNumber(),
		UserID:       draft.UserID,
		CustomerName: draft.CustomerName,
		Phone:        draft.Phone,
		Items:        orderItems,
		TotalPrice:   total,
		ShippingFee:  shippingFee,
		Status:       models.StatusPending,
		Source:       draft.Source,
		DeliveryType: draft.DeliveryType,
		Address:      draft.Address,
		PayMethod:    draft.PayMethod,
		PayStatus:    models.PaymentStatusPending,
	}

	insufficient := false
	err := s.orderRepo.Transaction(ctx, func(tx *gorm.DB) error {
		for _, d := range decrements {
			res := tx.Model(&models.ProductVariant{}).
				Where("id = ? AND stock >= ?", d.variantID, d.quantity).
				Update("stock", gorm.Expr("stock - ?", d.quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				insufficient = true
				return gorm.ErrInvalidData
			}
		}
		return s.orderRepo.CreateInTx(tx, order)
	})
	if err != nil {
		if insufficient {
			return nil, &ServiceError{StatusCode: 400, Message: "Insufficient stock"}
		}
		s.logger.Error("order creation failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	s.logger.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("source", order.Source),
		zap.Int64("total", order.TotalPrice),
	)

	s.enqueueNotification(ctx, order, models.EventOrderCreated)
	return order, nil
}

// UpdateStatus applies an admin status change with the transition guard:
// single forward steps only, CANCELLED only from early states, DELIVERED and
// CANCELLED terminal.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus string) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("order lookup failed", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	if !models.CanTransition(order.Status, newStatus) {
		return nil, &ServiceError{
			StatusCode: 400,
			Message:    fmt.Sprintf("Cannot move order from %s to %s", order.Status, newStatus),
		}
	}

	now := time.Now()
	order.Status = newStatus
	switch newStatus {
	case models.StatusCancelled:
		order.CancelledAt = &now
	case models.StatusDelivered:
		order.DeliveredAt = &now
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("order status update failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}

	switch newStatus {
	case models.StatusConfirmed:
		s.enqueueNotification(ctx, order, models.EventOrderConfirmed)
	case models.StatusInTransit:
		s.enqueueNotification(ctx, order, models.EventOrderShipped)
	case models.StatusDelivered:
		s.enqueueNotification(ctx, order, models.EventOrderDelivered)
	}

	return order, nil
}

// GetUserOrders returns the authenticated user's orders, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderPage, *ServiceError) {
	orders, total, err := s.orderRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("failed to fetch user orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return &OrderPage{Orders: orders, Meta: buildMeta(page, limit, total)}, nil
}

// GetAllOrders is the admin dashboard listing, optionally filtered by status.
func (s *OrderService) GetAllOrders(ctx context.Context, status string, page, limit int) (*OrderPage, *ServiceError) {
	orders, total, err := s.orderRepo.FindAll(ctx, status, page, limit)
	if err != nil {
		s.logger.Error("failed to fetch orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return &OrderPage{Orders: orders, Meta: buildMeta(page, limit, total)}, nil
}

// TrackByNumber is the public tracking lookup. Controllers mask personal
// fields before responding.
func (s *OrderService) TrackByNumber(ctx context.Context, orderNumber string) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("order tracking lookup failed", zap.String("order_number", orderNumber), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return order, nil
}

func (s *OrderService) enqueueNotification(ctx context.Context, order *models.Order, event string) {
	if s.producer == nil {
		return
	}

	channel := models.ChannelSMS
	recipient := order.Phone
	if recipient == "" {
		return
	}

	job := queue.NotificationJob{
		Event:       event,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Channel:     channel,
		Recipient:   recipient,
		Data: map[string]string{
			"customer_name": order.CustomerName,
			"total":         fmt.Sprintf("%.2f", float64(order.TotalPrice)/100),
		},
	}

	// best-effort: a queue outage must not fail the order
	if err := s.producer.Publish(ctx, job); err != nil {
		s.logger.Warn("notification enqueue failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}
}

func buildMeta(page, limit int, total int64) PageMeta {
	return PageMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
		HasMore:    total > int64(page*limit),
	}
}

func totalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

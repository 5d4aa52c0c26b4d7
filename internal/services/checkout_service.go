package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
)

// CheckoutRequest turns the stored cart into an order.
type CheckoutRequest struct {
	DeliveryType string `json:"delivery_type" binding:"required,oneof=courier pickup"`
	Address      string `json:"address"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	PayMethod    string `json:"payment_method" binding:"required,oneof=card cash"`
}

type CheckoutService struct {
	carts    *repository.CartRepository
	orders   *OrderService
	payments *PaymentService
	logger   *zap.Logger
}

func NewCheckoutService(
	carts *repository.CartRepository,
	orders *OrderService,
	payments *PaymentService,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{carts: carts, orders: orders, payments: payments, logger: logger}
}

// Checkout reads the owner's cart, creates the order (courier delivery adds
// the flat shipping fee), runs the card charge when requested, and clears the
// cart. A declined charge leaves the order in place with payment_status
// failed, matching the simulated gateway semantics.
func (s *CheckoutService) Checkout(ctx context.Context, ownerID string, userID *uuid.UUID, req *CheckoutRequest) (*models.Order, *ServiceError) {
	cart, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		s.logger.Error("cart read failed", zap.String("owner", ownerID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to read cart"}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}
	if req.DeliveryType == models.DeliveryCourier && req.Address == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Delivery address is required for courier orders"}
	}

	draft := &OrderDraft{
		UserID:       userID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		DeliveryType: req.DeliveryType,
		Address:      req.Address,
		Source:       models.SourceWeb,
		PayMethod:    req.PayMethod,
	}
	for _, item := range cart.Items {
		draft.Items = append(draft.Items, OrderDraftItem{
			SKU:       item.SKU,
			SizeLabel: item.SizeLabel,
			Quantity:  item.Quantity,
		})
	}

	order, svcErr := s.orders.CreateOrder(ctx, draft)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.PayMethod == models.PaymentMethodCard {
		result, payErr := s.payments.ChargeCard(order.TotalPrice)
		if payErr != nil || !result.Approved {
			order.PayStatus = models.PaymentStatusFailed
		} else {
			order.PayStatus = models.PaymentStatusPaid
			order.PayRef = result.Reference
		}
		if err := s.orders.orderRepo.Update(ctx, order); err != nil {
			s.logger.Error("failed to record payment status",
				zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}

	if err := s.carts.Delete(ctx, ownerID); err != nil {
		s.logger.Warn("failed to clear cart after checkout", zap.String("owner", ownerID), zap.Error(err))
	}

	return order, nil
}

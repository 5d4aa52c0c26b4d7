package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/serdchef/coskunyayci-backend/internal/models"
)

// QuickOrderRequest accepts both wire shapes the widget sends: the flat
// single-SKU form and the itemized form.
type QuickOrderRequest struct {
	SKU   string `json:"sku"`
	Phone string `json:"phone"`
	Name  string `json:"name"`

	Items []struct {
		SKU      string `json:"sku"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	Customer struct {
		Phone string `json:"phone"`
		Name  string `json:"name"`
	} `json:"customer"`
}

type QuickOrderResponse struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

// QuickOrderService is the minimal order path bypassing full checkout: a SKU
// and a phone number become a PENDING cash-on-delivery order plus a queued
// notification job.
type QuickOrderService struct {
	orders *OrderService
	logger *zap.Logger
}

func NewQuickOrderService(orders *OrderService, logger *zap.Logger) *QuickOrderService {
	return &QuickOrderService{orders: orders, logger: logger}
}

func (s *QuickOrderService) Create(ctx context.Context, req *QuickOrderRequest) (*QuickOrderResponse, *ServiceError) {
	phone := req.Phone
	name := req.Name
	if phone == "" {
		phone = req.Customer.Phone
	}
	if name == "" {
		name = req.Customer.Name
	}

	var items []OrderDraftItem
	switch {
	case req.SKU != "":
		items = []OrderDraftItem{{SKU: req.SKU, Quantity: 1}}
	case len(req.Items) > 0:
		for _, it := range req.Items {
			qty := it.Quantity
			if qty < 1 {
				qty = 1
			}
			items = append(items, OrderDraftItem{SKU: it.SKU, Quantity: qty})
		}
	}

	if len(items) == 0 || phone == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "sku and phone required"}
	}

	draft := &OrderDraft{
		CustomerName: name,
		Phone:        phone,
		Items:        items,
		DeliveryType: models.DeliveryCourier,
		Source:       models.SourceQuick,
		PayMethod:    models.PaymentMethodCash,
	}

	order, svcErr := s.orders.CreateOrder(ctx, draft)
	if svcErr != nil {
		return nil, svcErr
	}

	s.logger.Info("quick order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("phone", phone),
	)

	return &QuickOrderResponse{
		Success:     true,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
	}, nil
}

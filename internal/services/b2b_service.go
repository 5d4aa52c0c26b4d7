package services

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
)

// Bulk discount tiers by order total in TL.
var b2bTiers = []struct {
	Threshold float64
	Percent   float64
}{
	{2500, 20},
	{1000, 15},
	{500, 10},
	{250, 5},
}

// loyaltyThreshold adds a further 5% on top of the tier discount for orders
// of 500 TL and above.
const (
	loyaltyThreshold = 500.0
	loyaltyPercent   = 5.0
)

type B2BService struct {
	products repository.ProductRepository
	orders   *OrderService
	logger   *zap.Logger
}

func NewB2BService(products repository.ProductRepository, orders *OrderService, logger *zap.Logger) *B2BService {
	return &B2BService{products: products, orders: orders, logger: logger}
}

// QuoteAmount applies the tier table to a raw TL total. The loyalty extra
// applies to the already-discounted total: 1000 TL hits the 15% tier (850),
// then the 5% loyalty cut lands at 807.5.
func QuoteAmount(totalAmount float64) models.B2BQuoteResponse {
	var tierPercent float64
	for _, tier := range b2bTiers {
		if totalAmount >= tier.Threshold {
			tierPercent = tier.Percent
			break
		}
	}

	discounted := totalAmount * (1 - tierPercent/100)

	var loyalty float64
	if totalAmount >= loyaltyThreshold {
		loyalty = loyaltyPercent
		discounted = discounted * (1 - loyaltyPercent/100)
	}

	return models.B2BQuoteResponse{
		TotalAmount:     totalAmount,
		DiscountPercent: tierPercent,
		LoyaltyPercent:  loyalty,
		DiscountedTotal: math.Round(discounted*100) / 100,
	}
}

// Quote prices the itemized bulk request against the catalog and applies the
// tier table.
func (s *B2BService) Quote(ctx context.Context, req *models.B2BQuoteRequest) (*models.B2BQuoteResponse, *ServiceError) {
	total, svcErr := s.itemsTotal(ctx, req)
	if svcErr != nil {
		return nil, svcErr
	}
	quote := QuoteAmount(float64(total) / 100)
	return &quote, nil
}

// CreateOrder places a B2B order at the quoted discounted total.
func (s *B2BService) CreateOrder(ctx context.Context, req *models.B2BQuoteRequest, customerName, phone, address string) (*models.Order, *ServiceError) {
	total, svcErr := s.itemsTotal(ctx, req)
	if svcErr != nil {
		return nil, svcErr
	}
	quote := QuoteAmount(float64(total) / 100)

	draft := &OrderDraft{
		CustomerName:    customerName,
		Phone:           phone,
		Address:         address,
		DeliveryType:    models.DeliveryCourier,
		Source:          models.SourceB2B,
		PayMethod:       models.PaymentMethodCash,
		DiscountedTotal: int64(math.Round(quote.DiscountedTotal * 100)),
	}
	for _, item := range req.Items {
		draft.Items = append(draft.Items, OrderDraftItem{SKU: item.SKU, Quantity: item.Quantity})
	}

	order, svcErr2 := s.orders.CreateOrder(ctx, draft)
	if svcErr2 != nil {
		return nil, svcErr2
	}

	s.logger.Info("b2b order created",
		zap.String("order_number", order.OrderNumber),
		zap.Float64("discount_percent", quote.DiscountPercent),
	)
	return order, nil
}

func (s *B2BService) itemsTotal(ctx context.Context, req *models.B2BQuoteRequest) (int64, *ServiceError) {
	if len(req.Items) == 0 {
		return 0, &ServiceError{StatusCode: 400, Message: "At least one item is required"}
	}

	var total int64
	for _, item := range req.Items {
		product, err := s.products.FindBySKU(ctx, item.SKU)
		if err != nil {
			return 0, &ServiceError{StatusCode: 404, Message: "Product " + item.SKU + " not found"}
		}
		price := product.BasePrice
		if len(product.Variants) > 0 {
			price = product.Variants[0].EffectivePrice(product)
		}
		total += price * int64(item.Quantity)
	}
	return total, nil
}

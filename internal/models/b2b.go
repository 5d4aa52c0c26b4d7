package models

// B2BQuoteRequest is the bulk-order pricing input. Amounts are TL.
type B2BQuoteRequest struct {
	Items []B2BQuoteItem `json:"items" binding:"required,dive"`
}

type B2BQuoteItem struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// B2BQuoteResponse carries the tiered-discount arithmetic result.
type B2BQuoteResponse struct {
	TotalAmount     float64 `json:"totalAmount"`
	DiscountPercent float64 `json:"discountPercent"`
	LoyaltyPercent  float64 `json:"loyaltyPercent"`
	DiscountedTotal float64 `json:"discountedTotal"`
}

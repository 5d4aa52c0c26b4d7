package models

import "time"

type CartItem struct {
	SKU       string `json:"sku"`
	SizeLabel string `json:"size_label,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Cart lives in Redis keyed by the authenticated user ID or, for guests, the
// X-Session-ID header.
type Cart struct {
	OwnerID   string     `json:"owner_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

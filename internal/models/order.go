package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status values move through a fixed forward-only sequence.
const (
	StatusPending        = "PENDING"
	StatusConfirmed      = "CONFIRMED"
	StatusBaking         = "BAKING"
	StatusReady          = "READY"
	StatusInTransit      = "IN_TRANSIT"
	StatusOutForDelivery = "OUT_FOR_DELIVERY"
	StatusDelivered      = "DELIVERED"
	StatusCancelled      = "CANCELLED"
)

// statusOrder indexes the linear sequence; CANCELLED sits outside it.
var statusOrder = map[string]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusBaking:         2,
	StatusReady:          3,
	StatusInTransit:      4,
	StatusOutForDelivery: 5,
	StatusDelivered:      6,
}

// CanTransition reports whether an order may move from one status to the next.
// Forward moves advance exactly one step; CANCELLED is reachable only from the
// early states, and DELIVERED/CANCELLED are terminal.
func CanTransition(from, to string) bool {
	if from == StatusDelivered || from == StatusCancelled {
		return false
	}
	if to == StatusCancelled {
		return from == StatusPending || from == StatusConfirmed || from == StatusBaking
	}
	fi, ok := statusOrder[from]
	if !ok {
		return false
	}
	ti, ok := statusOrder[to]
	if !ok {
		return false
	}
	return ti == fi+1
}

// Order sources
const (
	SourceWeb     = "web"
	SourceQuick   = "quick"
	SourceChatbot = "chatbot"
	SourceB2B     = "b2b"
)

// Delivery types
const (
	DeliveryCourier = "courier"
	DeliveryPickup  = "pickup"
)

// Payment
const (
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

type Order struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber  string         `json:"order_number" gorm:"uniqueIndex;not null"`
	UserID       *uuid.UUID     `json:"user_id,omitempty" gorm:"type:uuid;index"` // nil for guest/quick orders
	CustomerName string         `json:"customer_name"`
	Phone        string         `json:"phone"`
	Items        []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalPrice   int64          `json:"total_price" gorm:"not null"`
	ShippingFee  int64          `json:"shipping_fee"`
	Status       string         `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	Source       string         `json:"source" gorm:"type:varchar(10);not null;default:'web'"`
	DeliveryType string         `json:"delivery_type" gorm:"type:varchar(10)"`
	Address      string         `json:"address"` // free-text snapshot at order time
	PayMethod    string         `json:"payment_method" gorm:"column:payment_method"`
	PayStatus    string         `json:"payment_status" gorm:"column:payment_status;default:'pending'"`
	PayRef       string         `json:"payment_ref,omitempty" gorm:"column:payment_ref"`
	CancelledAt  *time.Time     `json:"cancelled_at,omitempty"`
	DeliveredAt  *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// OrderItem captures name and unit price at order time so later catalog edits
// do not rewrite history.
type OrderItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	SKU         string    `json:"sku" gorm:"not null"`
	ProductName string    `json:"product_name" gorm:"not null"`
	SizeLabel   string    `json:"size_label"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   int64     `json:"unit_price" gorm:"not null"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"

	NotifyPending = "pending"
	NotifySent    = "sent"
	NotifyFailed  = "failed"

	EventOrderCreated   = "order_created"
	EventOrderConfirmed = "order_confirmed"
	EventOrderShipped   = "order_shipped"
	EventOrderDelivered = "order_delivered"
	EventPaymentFailed  = "payment_failed"
)

type NotificationLog struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    *uuid.UUID `json:"order_id,omitempty" gorm:"type:uuid;index"`
	Event      string     `json:"event" gorm:"not null"`
	Channel    string     `json:"channel" gorm:"type:varchar(10);not null"`
	Recipient  string     `json:"recipient" gorm:"not null"`
	Body       string     `json:"body"`
	Status     string     `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
	Error      string     `json:"error,omitempty"`
	RetryCount int        `json:"retry_count"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type NotificationFilter struct {
	OrderID  string
	Status   string
	Channel  string
	Page     int
	PageSize int
}

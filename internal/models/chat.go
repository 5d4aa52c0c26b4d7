package models

import "time"

// Chat slot names, in the order the assistant asks for them.
const (
	SlotProduct  = "product"
	SlotQuantity = "quantity"
	SlotDelivery = "delivery"
	SlotAddress  = "address"
	SlotPhone    = "phone"
	SlotPayment  = "payment"
)

// SlotOrder is the fixed prompting sequence for the order assistant.
var SlotOrder = []string{
	SlotProduct, SlotQuantity, SlotDelivery, SlotAddress, SlotPhone, SlotPayment,
}

// ChatSession accumulates order slots over multiple turns. It lives in Redis
// with a TTL so abandoned conversations expire on their own.
type ChatSession struct {
	ID        string            `json:"id"`
	Slots     map[string]string `json:"slots"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NextMissingSlot returns the first unfilled slot, or "" when the session is
// ready to submit.
func (s *ChatSession) NextMissingSlot() string {
	for _, slot := range SlotOrder {
		if s.Slots[slot] == "" {
			return slot
		}
	}
	return ""
}

func (s *ChatSession) Complete() bool {
	return s.NextMissingSlot() == ""
}

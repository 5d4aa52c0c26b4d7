package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
)

// ChatReply is the assistant's turn: either the next prompt or the submitted
// order's number once all slots are filled.
type ChatReply struct {
	SessionID   string            `json:"session_id"`
	Reply       string            `json:"reply"`
	Slots       map[string]string `json:"slots"`
	Complete    bool              `json:"complete"`
	OrderNumber string            `json:"order_number,omitempty"`
}

var slotPrompts = map[string]string{
	models.SlotProduct:  "Which product would you like to order? We have fıstıklı and cevizli baklava, şöbiyet, kadayıf and more.",
	models.SlotQuantity: "How many boxes would you like?",
	models.SlotDelivery: "Courier delivery or pickup from the shop?",
	models.SlotAddress:  "What is the delivery address?",
	models.SlotPhone:    "Which phone number can we reach you at?",
	models.SlotPayment:  "Card or cash on delivery?",
}

// ChatbotService fills a fixed set of order slots over multiple turns with
// keyword matching, then submits a normal order once every slot is set.
// Interpretation stays on the server; the widget only relays messages.
type ChatbotService struct {
	sessions repository.ChatSessionStore
	products *ProductService
	orders   *OrderService
	logger   *zap.Logger
}

func NewChatbotService(
	sessions repository.ChatSessionStore,
	products *ProductService,
	orders *OrderService,
	logger *zap.Logger,
) *ChatbotService {
	return &ChatbotService{sessions: sessions, products: products, orders: orders, logger: logger}
}

// Handle runs one conversational turn.
func (s *ChatbotService) Handle(ctx context.Context, sessionID, message string, userID *uuid.UUID) (*ChatReply, *ServiceError) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "message is required"}
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		s.logger.Error("chat session load failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load conversation"}
	}

	awaiting := session.NextMissingSlot()
	s.extract(ctx, session, awaiting, message)

	if !session.Complete() {
		if err := s.sessions.Save(ctx, session); err != nil {
			s.logger.Error("chat session save failed", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to save conversation"}
		}
		next := session.NextMissingSlot()
		return &ChatReply{
			SessionID: session.ID,
			Reply:     slotPrompts[next],
			Slots:     session.Slots,
		}, nil
	}

	order, svcErr := s.submit(ctx, session, userID)
	if svcErr != nil {
		// keep the session so the user can correct the failing slot
		_ = s.sessions.Save(ctx, session)
		return nil, svcErr
	}

	_ = s.sessions.Delete(ctx, session.ID)

	return &ChatReply{
		SessionID:   session.ID,
		Reply:       fmt.Sprintf("Your order %s has been placed. Total: ₺%.2f. Teşekkürler!", order.OrderNumber, float64(order.TotalPrice)/100),
		Slots:       session.Slots,
		Complete:    true,
		OrderNumber: order.OrderNumber,
	}, nil
}

func (s *ChatbotService) loadSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	if sessionID != "" {
		session, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session != nil {
			if session.Slots == nil {
				session.Slots = map[string]string{}
			}
			return session, nil
		}
	}
	return &models.ChatSession{
		ID:    uuid.NewString(),
		Slots: map[string]string{},
	}, nil
}

// extract fills whatever slots the message carries. The slot being awaited
// gets the loosest interpretation (a bare number answers the quantity prompt,
// free text answers the address prompt).
func (s *ChatbotService) extract(ctx context.Context, session *models.ChatSession, awaiting, message string) {
	lower := strings.ToLower(message)

	if session.Slots[models.SlotProduct] == "" {
		if sku := s.matchProduct(ctx, lower); sku != "" {
			session.Slots[models.SlotProduct] = sku
		}
	}

	if session.Slots[models.SlotDelivery] == "" {
		switch {
		case containsAny(lower, "kurye", "courier", "deliver", "teslimat"):
			session.Slots[models.SlotDelivery] = models.DeliveryCourier
		case containsAny(lower, "pickup", "gel al", "gel-al", "mağaza", "magaza", "shop"):
			session.Slots[models.SlotDelivery] = models.DeliveryPickup
		}
	}

	if session.Slots[models.SlotPayment] == "" {
		switch {
		case containsAny(lower, "kart", "card", "kredi", "credit"):
			session.Slots[models.SlotPayment] = models.PaymentMethodCard
		case containsAny(lower, "nakit", "cash", "kapıda", "kapida"):
			session.Slots[models.SlotPayment] = models.PaymentMethodCash
		}
	}

	if session.Slots[models.SlotPhone] == "" {
		if phone := extractPhone(message); phone != "" {
			session.Slots[models.SlotPhone] = phone
		}
	}

	if session.Slots[models.SlotQuantity] == "" {
		// only trust a bare number for quantity when quantity is what we
		// asked for; otherwise it could be part of an address or phone
		if qty := extractQuantity(lower, awaiting == models.SlotQuantity); qty > 0 {
			session.Slots[models.SlotQuantity] = strconv.Itoa(qty)
		}
	}

	if awaiting == models.SlotAddress && session.Slots[models.SlotAddress] == "" && len(message) >= 10 {
		session.Slots[models.SlotAddress] = message
	}
}

func (s *ChatbotService) matchProduct(ctx context.Context, lower string) string {
	page, svcErr := s.products.List(ctx, models.ProductFilters{}, 1, 100)
	if svcErr != nil {
		return ""
	}
	for _, p := range page.Products {
		if strings.Contains(lower, strings.ToLower(p.SKU)) || strings.Contains(lower, strings.ToLower(p.Name)) {
			return p.SKU
		}
		// match on the distinctive first word ("fıstıklı", "cevizli", "şöbiyet")
		first := strings.ToLower(strings.Fields(p.Name)[0])
		if len(first) >= 4 && strings.Contains(lower, first) {
			return p.SKU
		}
	}
	return ""
}

func (s *ChatbotService) submit(ctx context.Context, session *models.ChatSession, userID *uuid.UUID) (*models.Order, *ServiceError) {
	qty, err := strconv.Atoi(session.Slots[models.SlotQuantity])
	if err != nil || qty < 1 {
		session.Slots[models.SlotQuantity] = ""
		return nil, &ServiceError{StatusCode: 400, Message: "Quantity must be a positive number"}
	}

	draft := &OrderDraft{
		UserID:       userID,
		Phone:        session.Slots[models.SlotPhone],
		Items:        []OrderDraftItem{{SKU: session.Slots[models.SlotProduct], Quantity: qty}},
		DeliveryType: session.Slots[models.SlotDelivery],
		Address:      session.Slots[models.SlotAddress],
		Source:       models.SourceChatbot,
		PayMethod:    session.Slots[models.SlotPayment],
	}
	return s.orders.CreateOrder(ctx, draft)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// extractPhone pulls the first run of 10+ digits, tolerating spaces and
// separators ("0532 123 45 67").
func extractPhone(message string) string {
	var digits strings.Builder
	for _, r := range message {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		} else if r != ' ' && r != '-' && r != '(' && r != ')' && r != '+' {
			if digits.Len() >= 10 {
				break
			}
			digits.Reset()
		}
	}
	if digits.Len() >= 10 {
		return digits.String()
	}
	return ""
}

// extractQuantity finds a small standalone integer. Unless quantity is the
// awaited slot, only "2 kutu" / "3 kg" style phrases count.
func extractQuantity(lower string, awaited bool) int {
	fields := strings.Fields(lower)
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSuffix(f, "x"))
		if err != nil || n < 1 || n > 100 {
			continue
		}
		if awaited {
			return n
		}
		if i+1 < len(fields) && containsAny(fields[i+1], "kutu", "box", "kg", "adet", "tepsi") {
			return n
		}
	}
	return 0
}

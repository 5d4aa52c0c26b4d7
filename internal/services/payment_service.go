package services

import (
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"go.uber.org/zap"
)

// PaymentResult is what checkout records on the order.
type PaymentResult struct {
	Reference string
	Approved  bool
}

// PaymentService simulates card payments. In "stripe" mode it creates a real
// payment intent; in "mock" mode (the default) every charge is approved with a
// synthetic reference.
type PaymentService struct {
	mode   string
	logger *zap.Logger
}

func NewPaymentService(mode, stripeSecretKey string, logger *zap.Logger) *PaymentService {
	if mode == "stripe" {
		stripe.Key = stripeSecretKey
	}
	return &PaymentService{mode: mode, logger: logger}
}

// ChargeCard runs the card charge for the given amount in kuruş.
func (s *PaymentService) ChargeCard(amount int64) (PaymentResult, error) {
	if s.mode != "stripe" {
		ref := fmt.Sprintf("pi_mock_%d", time.Now().UnixNano())
		s.logger.Info("mock card payment approved", zap.String("ref", ref), zap.Int64("amount", amount))
		return PaymentResult{Reference: ref, Approved: true}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyTRY)),
		// Confirmed out of band; the storefront only simulates capture.
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		s.logger.Error("stripe payment intent failed", zap.Error(err))
		return PaymentResult{}, err
	}
	return PaymentResult{Reference: pi.ID, Approved: true}, nil
}

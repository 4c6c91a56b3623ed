package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/skillforge/course-marketplace/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
)

const currency = string(stripe.CurrencyUSD)

type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(webhookSecret string) *StripeGateway {
	return &StripeGateway{
		webhookSecret: webhookSecret,
	}
}

func (s *StripeGateway) Name() string {
	return "stripe"
}

func (s *StripeGateway) SignatureHeader() string {
	return "Stripe-Signature"
}

func (s *StripeGateway) CreateIntent(
	ctx context.Context,
	order *domain.Order,
	user *domain.User) (*domain.PaymentIntent, error) {

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
			Metadata: map[string]string{
				"order_id":     strconv.Itoa(order.ID),
				"order_number": order.OrderNumber,
				"user_id":      strconv.Itoa(order.UserID),
			},
		},
		Amount:       stripe.Int64(order.AmountMinorUnits()),
		Currency:     stripe.String(currency),
		ReceiptEmail: stripe.String(user.Email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}

	return &domain.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (s *StripeGateway) UpdateIntent(ctx context.Context, paymentID string, order *domain.Order) error {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
			Metadata: map[string]string{
				"order_id":     strconv.Itoa(order.ID),
				"order_number": order.OrderNumber,
				"user_id":      strconv.Itoa(order.UserID),
			},
		},
		Amount: stripe.Int64(order.AmountMinorUnits()),
	}

	_, err := paymentintent.Update(paymentID, params)
	if err != nil {
		return fmt.Errorf("stripe update payment intent %s: %w", paymentID, err)
	}

	return nil
}

// VerifyEvent authenticates the payload with Stripe's signature scheme and
// maps the event onto the closed domain.EventKind set. Event types outside
// that set come back as EventIgnored rather than an error.
func (s *StripeGateway) VerifyEvent(payload []byte, signature string) (domain.GatewayEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return domain.GatewayEvent{}, fmt.Errorf("%w: %s", domain.ErrInvalidSignature, err)
	}

	gatewayEvent := domain.GatewayEvent{Type: string(event.Type)}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		gatewayEvent.Kind = domain.EventPaymentSucceeded
	case stripe.EventTypePaymentIntentPaymentFailed:
		gatewayEvent.Kind = domain.EventPaymentFailed
	default:
		gatewayEvent.Kind = domain.EventIgnored
		return gatewayEvent, nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return domain.GatewayEvent{}, fmt.Errorf("unmarshal payment intent from event %s: %w", event.ID, err)
	}

	gatewayEvent.PaymentID = intent.ID

	return gatewayEvent, nil
}

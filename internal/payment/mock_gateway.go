package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/skillforge/course-marketplace/internal/domain"
)

// MockSignature is the only signature MockGateway accepts on webhook
// deliveries.
const MockSignature = "test-signature"

// MockGateway is a deterministic in-memory stand-in for a real payment
// provider, used by the integration tests. Intents get sequential ids and
// webhook payloads are plain JSON carrying the event type and payment id.
type MockGateway struct {
	mu      sync.Mutex
	seq     int
	intents map[string]int64

	CreateErr error
	UpdateErr error
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		intents: make(map[string]int64),
	}
}

func (m *MockGateway) Name() string {
	return "stripe"
}

func (m *MockGateway) SignatureHeader() string {
	return "Stripe-Signature"
}

func (m *MockGateway) CreateIntent(
	ctx context.Context,
	order *domain.Order,
	user *domain.User) (*domain.PaymentIntent, error) {

	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	id := fmt.Sprintf("pi_test_%d", m.seq)
	m.intents[id] = order.AmountMinorUnits()

	return &domain.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
	}, nil
}

func (m *MockGateway) UpdateIntent(ctx context.Context, paymentID string, order *domain.Order) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.intents[paymentID]; !ok {
		return fmt.Errorf("unknown payment intent %s", paymentID)
	}

	m.intents[paymentID] = order.AmountMinorUnits()

	return nil
}

// IntentAmount reports the minor-unit amount last written for the intent.
func (m *MockGateway) IntentAmount(paymentID string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	amount, ok := m.intents[paymentID]

	return amount, ok
}

func (m *MockGateway) VerifyEvent(payload []byte, signature string) (domain.GatewayEvent, error) {
	if signature != MockSignature {
		return domain.GatewayEvent{}, fmt.Errorf("%w: unexpected signature", domain.ErrInvalidSignature)
	}

	var event struct {
		Type      string `json:"type"`
		PaymentID string `json:"payment_id"`
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return domain.GatewayEvent{}, fmt.Errorf("unmarshal webhook payload: %w", err)
	}

	gatewayEvent := domain.GatewayEvent{
		PaymentID: event.PaymentID,
		Type:      event.Type,
	}

	switch event.Type {
	case "payment_intent.succeeded":
		gatewayEvent.Kind = domain.EventPaymentSucceeded
	case "payment_intent.payment_failed":
		gatewayEvent.Kind = domain.EventPaymentFailed
	default:
		gatewayEvent.Kind = domain.EventIgnored
	}

	return gatewayEvent, nil
}

package mocks

import (
	"context"

	"github.com/skillforge/course-marketplace/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentGateway struct {
	mock.Mock
	domain.PaymentGateway
}

func (m *MockPaymentGateway) Name() string {
	return "stripe"
}

func (m *MockPaymentGateway) SignatureHeader() string {
	return "Stripe-Signature"
}

func (m *MockPaymentGateway) CreateIntent(
	ctx context.Context,
	order *domain.Order,
	user *domain.User) (*domain.PaymentIntent, error) {

	args := m.Called(ctx, order, user)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}

func (m *MockPaymentGateway) UpdateIntent(ctx context.Context, paymentID string, order *domain.Order) error {
	args := m.Called(ctx, paymentID, order)
	return args.Error(0)
}

func (m *MockPaymentGateway) VerifyEvent(payload []byte, signature string) (domain.GatewayEvent, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(domain.GatewayEvent), args.Error(1)
}

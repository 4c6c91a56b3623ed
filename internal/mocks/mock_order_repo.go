package mocks

import (
	"context"

	"github.com/skillforge/course-marketplace/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepo struct {
	mock.Mock
	domain.OrderRepository
}

func (m *MockOrderRepo) CreateWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

func (m *MockOrderRepo) GetPendingByIdAndUser(ctx context.Context, orderID, userID int) (*domain.Order, error) {
	args := m.Called(ctx, orderID, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepo) UpdatePendingAmounts(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) SetPaymentId(ctx context.Context, orderID int, paymentID string) error {
	args := m.Called(ctx, orderID, paymentID)
	return args.Error(0)
}

func (m *MockOrderRepo) MarkPaid(ctx context.Context, paymentID string) (*domain.PaidOrder, error) {
	args := m.Called(ctx, paymentID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.PaidOrder), args.Error(1)
}

func (m *MockOrderRepo) MarkFailed(ctx context.Context, paymentID string) (*domain.Order, error) {
	args := m.Called(ctx, paymentID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Order), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/skillforge/course-marketplace/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockEntitlementRepo struct {
	mock.Mock
	domain.EntitlementRepository
}

func (m *MockEntitlementRepo) GrantIfAbsent(
	ctx context.Context,
	userID, courseID int,
	pricePaid decimal.Decimal) (bool, error) {

	args := m.Called(ctx, userID, courseID, pricePaid)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntitlementRepo) GetByUserId(ctx context.Context, userID int) ([]domain.Entitlement, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Entitlement), args.Error(1)
}

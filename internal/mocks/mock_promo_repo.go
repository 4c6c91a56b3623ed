package mocks

import (
	"context"

	"github.com/skillforge/course-marketplace/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPromoRepo struct {
	mock.Mock
	domain.PromoRepository
}

func (m *MockPromoRepo) GetByCode(ctx context.Context, code string) (*domain.Promo, error) {
	args := m.Called(ctx, code)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Promo), args.Error(1)
}

func (m *MockPromoRepo) GetById(ctx context.Context, id int) (*domain.Promo, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Promo), args.Error(1)
}

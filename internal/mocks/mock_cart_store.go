package mocks

import (
	"context"

	"github.com/skillforge/course-marketplace/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCartStore struct {
	mock.Mock
	domain.CartStore
}

func (m *MockCartStore) Items(ctx context.Context, userID int) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *MockCartStore) Add(ctx context.Context, userID, courseID int) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

func (m *MockCartStore) Remove(ctx context.Context, userID, courseID int) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

func (m *MockCartStore) Clear(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

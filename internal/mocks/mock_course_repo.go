package mocks

import (
	"context"

	"github.com/skillforge/course-marketplace/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCourseRepo struct {
	mock.Mock
	domain.CourseRepository
}

func (m *MockCourseRepo) GetById(ctx context.Context, id int) (*domain.Course, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockCourseRepo) GetByIds(ctx context.Context, ids []int) ([]domain.Course, error) {
	args := m.Called(ctx, ids)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *MockCourseRepo) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Course, *domain.Metadata, error) {

	args := m.Called(ctx, pagination)

	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}

	return args.Get(0).([]domain.Course), args.Get(1).(*domain.Metadata), args.Error(2)
}

package mocks

import (
	"context"

	"theforum/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Save(ctx context.Context, sub *model.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepository) FindByMonth(ctx context.Context, monthKey string) ([]model.Submission, error) {
	args := m.Called(ctx, monthKey)
	if f, ok := args.Get(0).(func(context.Context, string) []model.Submission); ok {
		return f(ctx, monthKey), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Submission), args.Error(1)
}

package mocks

import (
	"context"

	"theforum/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) Submit(ctx context.Context, identity *model.Identity, draft model.Draft) (*model.Submission, error) {
	args := m.Called(ctx, identity, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

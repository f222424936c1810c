package mocks

import (
	"context"

	"theforum/internal/export"
	"theforum/internal/newsletter"

	"github.com/stretchr/testify/mock"
)

type MockNewsletterService struct {
	mock.Mock
}

func (m *MockNewsletterService) Compile(ctx context.Context, monthKey string) (*newsletter.Document, error) {
	args := m.Called(ctx, monthKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*newsletter.Document), args.Error(1)
}

func (m *MockNewsletterService) Export(ctx context.Context, monthKey string, f export.Format) (*export.Artifact, error) {
	args := m.Called(ctx, monthKey, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Artifact), args.Error(1)
}

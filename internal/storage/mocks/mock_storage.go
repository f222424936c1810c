package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"theforum/internal/storage"
)

// PutFunc lets a test compute the returned Object from the upload arguments.
type PutFunc func(ctx context.Context, key string, r io.Reader, opt storage.PutOptions) storage.Object

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, key string, r io.Reader, opt storage.PutOptions) (storage.Object, error) {
	args := m.Called(ctx, key, r, opt)
	switch v := args.Get(0).(type) {
	case PutFunc:
		return v(ctx, key, r, opt), args.Error(1)
	case func(context.Context, string, io.Reader, storage.PutOptions) storage.Object:
		return v(ctx, key, r, opt), args.Error(1)
	}
	return args.Get(0).(storage.Object), args.Error(1)
}

func (m *MockBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, storage.Object, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	obj, _ := args.Get(1).(storage.Object)
	return rc, obj, args.Error(2)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockBlobStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

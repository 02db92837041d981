package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"scanapi/internal/storage"
)

// MockStorage is a testify mock of storage.Storage.
// Put and Get also accept functions as their first return value so captures and fresh readers
// can be produced per call.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	if f, ok := args.Get(0).(func(context.Context, string, io.Reader, storage.PutObjectOptions) storage.ObjectInfo); ok {
		return f(ctx, key, r, opt), args.Error(1)
	}
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	switch v := args.Get(0).(type) {
	case nil:
		return nil, storage.ObjectInfo{}, args.Error(2)
	case func(string) io.ReadCloser:
		return v(key), args.Get(1).(storage.ObjectInfo), args.Error(2)
	default:
		return v.(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

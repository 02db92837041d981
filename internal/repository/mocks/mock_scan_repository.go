package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scanapi/internal/model"
	"scanapi/internal/repository"
)

type MockScanRepository struct {
	mock.Mock
}

func (m *MockScanRepository) Create(ctx context.Context, scan *model.ScanRecord) (*model.ScanRecord, error) {
	args := m.Called(ctx, scan)
	if f, ok := args.Get(0).(func(context.Context, *model.ScanRecord) *model.ScanRecord); ok {
		return f(ctx, scan), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanRecord), args.Error(1)
}

func (m *MockScanRepository) FindByID(ctx context.Context, userID, id string) (*model.ScanRecord, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanRecord), args.Error(1)
}

func (m *MockScanRepository) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.ScanRecord], error) {
	args := m.Called(ctx, userID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ScanRecord]), args.Error(1)
}

func (m *MockScanRepository) UpdateAnalysis(ctx context.Context, userID, id string, a model.Analysis) error {
	args := m.Called(ctx, userID, id, a)
	return args.Error(0)
}

func (m *MockScanRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

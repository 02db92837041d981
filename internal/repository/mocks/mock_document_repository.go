package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scanapi/internal/model"
)

type MockScanDocumentRepository struct {
	mock.Mock
}

func (m *MockScanDocumentRepository) Create(ctx context.Context, doc *model.ScanDocument) (*model.ScanDocument, error) {
	args := m.Called(ctx, doc)
	if f, ok := args.Get(0).(func(context.Context, *model.ScanDocument) *model.ScanDocument); ok {
		return f(ctx, doc), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanDocument), args.Error(1)
}

func (m *MockScanDocumentRepository) FindByID(ctx context.Context, scanID, id string) (*model.ScanDocument, error) {
	args := m.Called(ctx, scanID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanDocument), args.Error(1)
}

func (m *MockScanDocumentRepository) ListByScan(ctx context.Context, scanID string) ([]model.ScanDocument, error) {
	args := m.Called(ctx, scanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScanDocument), args.Error(1)
}

func (m *MockScanDocumentRepository) UpdateAnalysis(ctx context.Context, id string, a model.Analysis) error {
	args := m.Called(ctx, id, a)
	return args.Error(0)
}

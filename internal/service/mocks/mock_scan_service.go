package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scanapi/internal/model"
	"scanapi/internal/service"
)

type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) Create(ctx context.Context, in service.CreateScanInput) (*model.ScanRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanRecord), args.Error(1)
}

func (m *MockScanService) List(ctx context.Context, userID string, filter service.ScanFilter) (*service.ScanListResult, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanListResult), args.Error(1)
}

func (m *MockScanService) Get(ctx context.Context, userID, id string) (*model.ScanRecord, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanRecord), args.Error(1)
}

func (m *MockScanService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockScanService) Process(ctx context.Context, userID, id string) (service.ProcessResults, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.ProcessResults), args.Error(1)
}

func (m *MockScanService) Download(ctx context.Context, userID, scanID, docID string) (*service.Download, error) {
	args := m.Called(ctx, userID, scanID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Download), args.Error(1)
}

func (m *MockScanService) PresignDownload(ctx context.Context, userID, scanID, docID string) (string, error) {
	args := m.Called(ctx, userID, scanID, docID)
	return args.String(0), args.Error(1)
}

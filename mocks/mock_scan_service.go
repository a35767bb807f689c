package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"scan1c/internal/domain"
	"scan1c/internal/service"
)

// MockScanService is a mock implementation of service.ScanService.
type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) Scan(ctx context.Context, input service.ScanInput) (*service.ScanOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanOutput), args.Error(1)
}

func (m *MockScanService) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecognitionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecognitionRecord), args.Error(1)
}

func (m *MockScanService) List(ctx context.Context, offset, limit int) ([]domain.RecognitionRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RecognitionRecord), args.Int(1), args.Error(2)
}

func (m *MockScanService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockScanService) Export(ctx context.Context, id uuid.UUID, format domain.ExportFormat) (*service.ExportOutput, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportOutput), args.Error(1)
}

func (m *MockScanService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

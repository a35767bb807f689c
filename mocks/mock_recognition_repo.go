package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"scan1c/internal/domain"
)

// MockRecognitionRepo is a mock implementation of port.RecognitionRepository.
type MockRecognitionRepo struct {
	mock.Mock
}

func (m *MockRecognitionRepo) Create(ctx context.Context, rec *domain.RecognitionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecognitionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecognitionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecognitionRecord), args.Error(1)
}

func (m *MockRecognitionRepo) ListRecent(ctx context.Context, offset, limit int) ([]domain.RecognitionRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RecognitionRecord), args.Int(1), args.Error(2)
}

func (m *MockRecognitionRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

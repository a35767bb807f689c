package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scan1c/internal/domain"
)

// MockDocumentRecognizer is a mock implementation of port.DocumentRecognizer.
type MockDocumentRecognizer struct {
	mock.Mock
}

func (m *MockDocumentRecognizer) Recognize(ctx context.Context, req domain.RecognitionRequest) *domain.DocumentResult {
	args := m.Called(ctx, req)
	return args.Get(0).(*domain.DocumentResult)
}

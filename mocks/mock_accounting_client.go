package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scan1c/internal/domain"
)

// MockAccountingClient is a mock implementation of port.AccountingClient.
type MockAccountingClient struct {
	mock.Mock
}

func (m *MockAccountingClient) SendDocument(ctx context.Context, sub *domain.Submission) (*domain.AccountingResult, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingResult), args.Error(1)
}

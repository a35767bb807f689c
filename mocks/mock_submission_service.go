package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scan1c/internal/domain"
)

// MockSubmissionService is a mock implementation of service.SubmissionService.
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, sub *domain.Submission) (*domain.AccountingResult, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingResult), args.Error(1)
}

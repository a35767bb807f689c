package port

import (
	"context"

	"scan1c/internal/domain"
)

// AccountingClient posts reviewed documents to the accounting system.
type AccountingClient interface {
	SendDocument(ctx context.Context, sub *domain.Submission) (*domain.AccountingResult, error)
}

package port

import (
	"context"

	"github.com/google/uuid"

	"scan1c/internal/domain"
)

// RecognitionRepository defines the contract for the recognition log.
type RecognitionRepository interface {
	Create(ctx context.Context, rec *domain.RecognitionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RecognitionRecord, error)
	ListRecent(ctx context.Context, offset, limit int) ([]domain.RecognitionRecord, int, error)
	Ping(ctx context.Context) error
}

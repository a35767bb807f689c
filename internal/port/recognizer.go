package port

import (
	"context"

	"scan1c/internal/domain"
)

// DocumentRecognizer turns a document image into structured invoice data.
// It never returns an error: failures are reported through DocumentResult.Error.
type DocumentRecognizer interface {
	Recognize(ctx context.Context, req domain.RecognitionRequest) *domain.DocumentResult
}

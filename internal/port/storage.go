package port

import (
	"context"
	"io"
	"time"
)

// ArchiveObject describes an uploaded document kept for later review.
type ArchiveObject struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// DocumentArchive abstracts object storage for original uploads.
// Implementations are bound to a single bucket.
type DocumentArchive interface {
	Put(ctx context.Context, obj ArchiveObject) (location string, err error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

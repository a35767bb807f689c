package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"scan1c/internal/domain"
	"scan1c/internal/port"
)

type recognitionRepo struct {
	db *sqlx.DB
}

// NewRecognitionRepo creates a new PostgreSQL-backed RecognitionRepository.
func NewRecognitionRepo(db *sqlx.DB) port.RecognitionRepository {
	return &recognitionRepo{db: db}
}

func (r *recognitionRepo) Create(ctx context.Context, rec *domain.RecognitionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO recognitions
		(id, source, file_name, content_type, file_size, storage_key, status,
		 result, error, supplier_inn, doc_number, total_sum, item_count, models, created_at)
		VALUES (:id, :source, :file_name, :content_type, :file_size, :storage_key, :status,
		 :result, :error, :supplier_inn, :doc_number, :total_sum, :item_count, :models, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("recognitionRepo.Create: %w", err)
	}
	return nil
}

func (r *recognitionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecognitionRecord, error) {
	var rec domain.RecognitionRecord
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM recognitions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecognitionNotFound
		}
		return nil, fmt.Errorf("recognitionRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *recognitionRepo) ListRecent(ctx context.Context, offset, limit int) ([]domain.RecognitionRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM recognitions"); err != nil {
		return nil, 0, fmt.Errorf("recognitionRepo.ListRecent count: %w", err)
	}

	// The stored result is omitted from listings; fetch a single record for it.
	recs := []domain.RecognitionRecord{}
	err := r.db.SelectContext(ctx, &recs,
		`SELECT id, source, file_name, content_type, file_size, storage_key, status,
		        'null'::jsonb AS result, error, supplier_inn, doc_number, total_sum, item_count, models, created_at
		 FROM recognitions
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("recognitionRepo.ListRecent: %w", err)
	}
	return recs, total, nil
}

func (r *recognitionRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

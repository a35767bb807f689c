package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"scan1c/internal/domain"
	"scan1c/internal/export"
	"scan1c/internal/port"
)

// ScanInput is the DTO for one uploaded document.
type ScanInput struct {
	Source       domain.ScanSource
	FileName     string
	DeclaredType string
	Data         []byte
}

// ScanOutput is the result of a scan. ID is uuid.Nil when history is disabled
// or the record could not be stored.
type ScanOutput struct {
	ID     uuid.UUID
	Result *domain.DocumentResult
}

// ExportOutput is a rendered recognition export.
type ExportOutput struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ScanService defines the document scanning contract.
type ScanService interface {
	Scan(ctx context.Context, input ScanInput) (*ScanOutput, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RecognitionRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.RecognitionRecord, int, error)
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
	Export(ctx context.Context, id uuid.UUID, format domain.ExportFormat) (*ExportOutput, error)
	Ready(ctx context.Context) error
}

// ScanConfig holds the limits applied to uploads.
type ScanConfig struct {
	MaxUploadBytes int64
	PresignExpiry  time.Duration
	// Models describes the configured model chain, stored with each record.
	Models string
}

type scanService struct {
	recognizer port.DocumentRecognizer
	repo       port.RecognitionRepository
	archive    port.DocumentArchive
	cfg        ScanConfig
	now        func() time.Time
}

// NewScanService creates a new ScanService. repo and archive may be nil when
// history or archiving is disabled.
func NewScanService(
	recognizer port.DocumentRecognizer,
	repo port.RecognitionRepository,
	archive port.DocumentArchive,
	cfg ScanConfig,
) ScanService {
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = time.Hour
	}
	return &scanService{
		recognizer: recognizer,
		repo:       repo,
		archive:    archive,
		cfg:        cfg,
		now:        time.Now,
	}
}

// DetectContentType validates the upload by its magic bytes. A declared type
// is used only when sniffing is inconclusive.
func DetectContentType(data []byte, declared string) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrEmptyFile
	}
	detected := http.DetectContentType(data)
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	if _, ok := domain.AllowedContentTypes[detected]; ok {
		return detected, nil
	}
	if detected == "application/octet-stream" {
		declared = strings.ToLower(strings.TrimSpace(declared))
		if _, ok := domain.AllowedContentTypes[declared]; ok {
			return declared, nil
		}
	}
	return "", domain.ErrUnsupportedFileType
}

func (s *scanService) Scan(ctx context.Context, input ScanInput) (*ScanOutput, error) {
	if s.cfg.MaxUploadBytes > 0 && int64(len(input.Data)) > s.cfg.MaxUploadBytes {
		return nil, domain.ErrFileTooLarge
	}
	contentType, err := DetectContentType(input.Data, input.DeclaredType)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	log := logrus.WithFields(logrus.Fields{
		"component":    "service.Scan",
		"scan_id":      id.String(),
		"source":       input.Source,
		"content_type": contentType,
		"bytes":        len(input.Data),
	})
	log.Infof("scanning %q", input.FileName)

	storageKey := s.archiveOriginal(ctx, log, id, contentType, input.Data)

	result := s.recognizer.Recognize(ctx, domain.RecognitionRequest{
		Data:      input.Data,
		MultiPage: domain.IsMultiPage(contentType),
		MimeType:  contentType,
		FileName:  input.FileName,
	})

	out := &ScanOutput{Result: result}
	if s.repo == nil {
		return out, nil
	}

	rec, err := newRecognitionRecord(id, input, contentType, storageKey, result, s.now())
	if err == nil {
		rec.Models = s.cfg.Models
		err = s.repo.Create(ctx, rec)
	}
	if err != nil {
		log.Errorf("failed to store recognition: %v", err)
		if storageKey != "" {
			if delErr := s.archive.Delete(context.WithoutCancel(ctx), storageKey); delErr != nil {
				log.Warnf("failed to delete orphaned upload %s: %v", storageKey, delErr)
			}
		}
		return out, nil
	}
	out.ID = id
	return out, nil
}

func (s *scanService) archiveOriginal(ctx context.Context, log *logrus.Entry, id uuid.UUID, contentType string, data []byte) string {
	if s.archive == nil {
		return ""
	}
	key := fmt.Sprintf("scans/%s/%s.%s", s.now().UTC().Format("2006/01"), id, domain.AllowedContentTypes[contentType])
	if _, err := s.archive.Put(ctx, port.ArchiveObject{
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	}); err != nil {
		log.Warnf("archiving upload failed: %v", err)
		return ""
	}
	return key
}

func newRecognitionRecord(
	id uuid.UUID,
	input ScanInput,
	contentType, storageKey string,
	result *domain.DocumentResult,
	now time.Time,
) (*domain.RecognitionRecord, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	source := input.Source
	if source == "" {
		source = domain.ScanSourceAPI
	}
	rec := &domain.RecognitionRecord{
		ID:          id,
		Source:      source,
		FileName:    input.FileName,
		ContentType: contentType,
		FileSize:    int64(len(input.Data)),
		StorageKey:  storageKey,
		Status:      domain.RecognitionStatusCompleted,
		Result:      raw,
		SupplierINN: result.SupplierINN,
		DocNumber:   result.DocNumber,
		TotalSum:    result.TotalSum,
		ItemCount:   len(result.Items),
		CreatedAt:   now.UTC(),
	}
	if result.Failed() {
		rec.Status = domain.RecognitionStatusFailed
		rec.Error = result.Error
	}
	return rec, nil
}

func (s *scanService) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecognitionRecord, error) {
	if s.repo == nil {
		return nil, domain.ErrPersistenceDisabled
	}
	return s.repo.GetByID(ctx, id)
}

func (s *scanService) List(ctx context.Context, offset, limit int) ([]domain.RecognitionRecord, int, error) {
	if s.repo == nil {
		return nil, 0, domain.ErrPersistenceDisabled
	}
	return s.repo.ListRecent(ctx, offset, limit)
}

func (s *scanService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.archive == nil || rec.StorageKey == "" {
		return "", domain.ErrNotArchived
	}
	return s.archive.PresignGet(ctx, rec.StorageKey, s.cfg.PresignExpiry)
}

func (s *scanService) Export(ctx context.Context, id uuid.UUID, format domain.ExportFormat) (*ExportOutput, error) {
	if format != domain.ExportFormatXLSX && format != domain.ExportFormatCSV {
		return nil, domain.ErrInvalidExportFormat
	}
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var doc domain.DocumentResult
	if err := json.Unmarshal(rec.Result, &doc); err != nil {
		return nil, fmt.Errorf("decoding stored result: %w", err)
	}

	base := exportBaseName(rec)
	var buf bytes.Buffer
	out := &ExportOutput{}
	switch format {
	case domain.ExportFormatXLSX:
		err = export.WriteXLSX(&buf, &doc)
		out.FileName = base + ".xlsx"
		out.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case domain.ExportFormatCSV:
		err = export.NewCSVWriter(&buf).WriteDocument(&doc)
		out.FileName = base + ".csv"
		out.ContentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, fmt.Errorf("rendering export: %w", err)
	}
	out.Body = buf.Bytes()
	return out, nil
}

func exportBaseName(rec *domain.RecognitionRecord) string {
	if rec.DocNumber == "" {
		return "scan-" + rec.ID.String()
	}
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '_'
		}
		return r
	}, rec.DocNumber)
	return "nakladnaya-" + safe
}

func (s *scanService) Ready(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

// ReadUpload reads at most limit bytes from r and reports ErrFileTooLarge beyond that.
func ReadUpload(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, domain.ErrFileTooLarge
	}
	return data, nil
}

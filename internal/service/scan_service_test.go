package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scan1c/internal/domain"
	"scan1c/internal/port"
	"scan1c/internal/service"
	"scan1c/mocks"
)

var (
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
	pdfBytes  = []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")
)

func okResult() *domain.DocumentResult {
	return &domain.DocumentResult{
		SupplierINN: "7707083893",
		DocNumber:   "12",
		Items:       []domain.LineItem{{ItemName: "Гвозди", Quantity: 2, Price: 5, Total: 10}},
		TotalSum:    10,
	}
}

func TestDetectContentType(t *testing.T) {
	ct, err := service.DetectContentType(jpegBytes, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypeJPEG, ct)

	ct, err = service.DetectContentType(pdfBytes, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypePDF, ct)

	_, err = service.DetectContentType([]byte("hello world"), "image/png")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	_, err = service.DetectContentType(nil, "")
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	ct, err = service.DetectContentType([]byte{0x00, 0x01, 0x02, 0x03}, "image/webp")
	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypeWebP, ct)
}

func TestScanService_Scan_ImageWithoutHistory(t *testing.T) {
	rec := new(mocks.MockDocumentRecognizer)
	rec.On("Recognize", mock.Anything, mock.MatchedBy(func(r domain.RecognitionRequest) bool {
		return !r.MultiPage && r.MimeType == domain.ContentTypeJPEG && r.FileName == "photo.jpg"
	})).Return(okResult())

	svc := service.NewScanService(rec, nil, nil, service.ScanConfig{MaxUploadBytes: 1 << 20})
	out, err := svc.Scan(context.Background(), service.ScanInput{FileName: "photo.jpg", Data: jpegBytes})

	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, out.ID)
	assert.Equal(t, 10.0, out.Result.TotalSum)
}

func TestScanService_Scan_PDFIsMultiPage(t *testing.T) {
	rec := new(mocks.MockDocumentRecognizer)
	rec.On("Recognize", mock.Anything, mock.MatchedBy(func(r domain.RecognitionRequest) bool {
		return r.MultiPage && r.MimeType == domain.ContentTypePDF
	})).Return(okResult())

	svc := service.NewScanService(rec, nil, nil, service.ScanConfig{})
	_, err := svc.Scan(context.Background(), service.ScanInput{Data: pdfBytes})

	require.NoError(t, err)
	rec.AssertExpectations(t)
}

func TestScanService_Scan_TooLarge(t *testing.T) {
	rec := new(mocks.MockDocumentRecognizer)

	svc := service.NewScanService(rec, nil, nil, service.ScanConfig{MaxUploadBytes: 10})
	_, err := svc.Scan(context.Background(), service.ScanInput{Data: jpegBytes})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	rec.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestScanService_Scan_UnsupportedType(t *testing.T) {
	svc := service.NewScanService(new(mocks.MockDocumentRecognizer), nil, nil, service.ScanConfig{})

	_, err := svc.Scan(context.Background(), service.ScanInput{Data: []byte("plain text")})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestScanService_Scan_ArchivesAndPersists(t *testing.T) {
	rec := new(mocks.MockDocumentRecognizer)
	repo := new(mocks.MockRecognitionRepo)
	archive := new(mocks.MockDocumentArchive)

	rec.On("Recognize", mock.Anything, mock.Anything).Return(okResult())
	archive.On("Put", mock.Anything, mock.MatchedBy(func(o port.ArchiveObject) bool {
		return strings.HasPrefix(o.Key, "scans/") && strings.HasSuffix(o.Key, ".jpg") &&
			o.ContentType == domain.ContentTypeJPEG && o.Size == int64(len(jpegBytes))
	})).Return("s3://bucket/key", nil)

	var stored *domain.RecognitionRecord
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.RecognitionRecord")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.RecognitionRecord) }).
		Return(nil)

	svc := service.NewScanService(rec, repo, archive, service.ScanConfig{})
	out, err := svc.Scan(context.Background(), service.ScanInput{
		Source: domain.ScanSourceTelegram, FileName: "photo.jpg", Data: jpegBytes,
	})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, out.ID, stored.ID)
	assert.NotEqual(t, uuid.Nil, out.ID)
	assert.Equal(t, domain.ScanSourceTelegram, stored.Source)
	assert.Equal(t, domain.RecognitionStatusCompleted, stored.Status)
	assert.Equal(t, "7707083893", stored.SupplierINN)
	assert.Equal(t, 1, stored.ItemCount)
	assert.True(t, strings.HasSuffix(stored.StorageKey, out.ID.String()+".jpg"))

	var result domain.DocumentResult
	require.NoError(t, json.Unmarshal(stored.Result, &result))
	assert.Equal(t, 10.0, result.TotalSum)
}

func TestScanService_Scan_FailedRecognitionIsStored(t *testing.T) {
	rec := new(mocks.MockDocumentRecognizer)
	repo := new(mocks.MockRecognitionRepo)

	rec.On("Recognize", mock.Anything, mock.Anything).Return(domain.NewRecognitionError("all models failed"))
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.RecognitionRecord) bool {
		return r.Status == domain.RecognitionStatusFailed && r.Error == "all models failed"
	})).Return(nil)

	svc := service.NewScanService(rec, repo, nil, service.ScanConfig{})
	out, err := svc.Scan(context.Background(), service.ScanInput{Data: jpegBytes})

	require.NoError(t, err)
	assert.True(t, out.Result.Failed())
	repo.AssertExpectations(t)
}

func TestScanService_Scan_ArchiveFailureDoesNotFailScan(t *testing.T) {
	rec := new(mocks.MockDocumentRecognizer)
	repo := new(mocks.MockRecognitionRepo)
	archive := new(mocks.MockDocumentArchive)

	rec.On("Recognize", mock.Anything, mock.Anything).Return(okResult())
	archive.On("Put", mock.Anything, mock.Anything).Return("", errors.New("s3 down"))
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.RecognitionRecord) bool {
		return r.StorageKey == ""
	})).Return(nil)

	svc := service.NewScanService(rec, repo, archive, service.ScanConfig{})
	out, err := svc.Scan(context.Background(), service.ScanInput{Data: jpegBytes})

	require.NoError(t, err)
	assert.False(t, out.Result.Failed())
	repo.AssertExpectations(t)
}

func TestScanService_Scan_PersistFailureRemovesArchive(t *testing.T) {
	rec := new(mocks.MockDocumentRecognizer)
	repo := new(mocks.MockRecognitionRepo)
	archive := new(mocks.MockDocumentArchive)

	rec.On("Recognize", mock.Anything, mock.Anything).Return(okResult())
	archive.On("Put", mock.Anything, mock.Anything).Return("loc", nil)
	archive.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, "scans/") })).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := service.NewScanService(rec, repo, archive, service.ScanConfig{})
	out, err := svc.Scan(context.Background(), service.ScanInput{Data: jpegBytes})

	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, out.ID)
	archive.AssertExpectations(t)
}

func TestScanService_GetByID_HistoryDisabled(t *testing.T) {
	svc := service.NewScanService(new(mocks.MockDocumentRecognizer), nil, nil, service.ScanConfig{})

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPersistenceDisabled)

	_, _, err = svc.List(context.Background(), 0, 10)
	assert.ErrorIs(t, err, domain.ErrPersistenceDisabled)

	assert.NoError(t, svc.Ready(context.Background()))
}

func TestScanService_GetDownloadURL(t *testing.T) {
	repo := new(mocks.MockRecognitionRepo)
	archive := new(mocks.MockDocumentArchive)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(&domain.RecognitionRecord{ID: id, StorageKey: "scans/2024/01/x.jpg"}, nil)
	archive.On("PresignGet", mock.Anything, "scans/2024/01/x.jpg", 30*time.Minute).Return("https://signed", nil)

	svc := service.NewScanService(new(mocks.MockDocumentRecognizer), repo, archive, service.ScanConfig{PresignExpiry: 30 * time.Minute})
	url, err := svc.GetDownloadURL(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)
}

func TestScanService_GetDownloadURL_NotArchived(t *testing.T) {
	repo := new(mocks.MockRecognitionRepo)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.RecognitionRecord{ID: id}, nil)

	svc := service.NewScanService(new(mocks.MockDocumentRecognizer), repo, nil, service.ScanConfig{})
	_, err := svc.GetDownloadURL(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotArchived)
}

func TestScanService_Export(t *testing.T) {
	repo := new(mocks.MockRecognitionRepo)
	id := uuid.New()
	raw, _ := json.Marshal(okResult())
	repo.On("GetByID", mock.Anything, id).Return(&domain.RecognitionRecord{ID: id, DocNumber: "12/А", Result: raw}, nil)

	svc := service.NewScanService(new(mocks.MockDocumentRecognizer), repo, nil, service.ScanConfig{})

	csvOut, err := svc.Export(context.Background(), id, domain.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "nakladnaya-12_А.csv", csvOut.FileName)
	assert.Contains(t, string(csvOut.Body), "Гвозди")

	xlsxOut, err := svc.Export(context.Background(), id, domain.ExportFormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "nakladnaya-12_А.xlsx", xlsxOut.FileName)
	assert.NotEmpty(t, xlsxOut.Body)

	_, err = svc.Export(context.Background(), id, "pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidExportFormat)
}

func TestReadUpload(t *testing.T) {
	data, err := service.ReadUpload(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(data))

	_, err = service.ReadUpload(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

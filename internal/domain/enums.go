package domain

// ContentType constants for accepted uploads.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeWebP = "image/webp"
	ContentTypeGIF  = "image/gif"
)

// AllowedContentTypes maps accepted MIME types to the file extension used for archiving.
var AllowedContentTypes = map[string]string{
	ContentTypePDF:  "pdf",
	ContentTypeJPEG: "jpg",
	ContentTypePNG:  "png",
	ContentTypeWebP: "webp",
	ContentTypeGIF:  "gif",
}

// IsMultiPage reports whether a content type is a multi-page container.
func IsMultiPage(contentType string) bool {
	return contentType == ContentTypePDF
}

// RecognitionStatus is the terminal state of a recognition call.
type RecognitionStatus string

const (
	RecognitionStatusCompleted RecognitionStatus = "completed"
	RecognitionStatusFailed    RecognitionStatus = "failed"
)

// ScanSource identifies the channel a document came through.
type ScanSource string

const (
	ScanSourceAPI      ScanSource = "api"
	ScanSourceTelegram ScanSource = "telegram"
)

// ExportFormat is the file format of a recognition export.
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

package domain

import "errors"

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile           = errors.New("file is empty")
	ErrRecognitionNotFound = errors.New("recognition not found")
	ErrPersistenceDisabled = errors.New("recognition history is disabled")
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrNotArchived         = errors.New("original file is not archived")
	ErrInvalidINN          = errors.New("supplier INN must contain 10 or 12 digits")
	ErrNoItems             = errors.New("document has no items")
	ErrEmptyItemName       = errors.New("document has items without a name")
	ErrAccountingRejected  = errors.New("1C rejected the document")
)

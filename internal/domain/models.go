package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RecognitionRecord is the persisted audit entry of one scan.
type RecognitionRecord struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	Source      ScanSource        `db:"source" json:"source"`
	FileName    string            `db:"file_name" json:"file_name"`
	ContentType string            `db:"content_type" json:"content_type"`
	FileSize    int64             `db:"file_size" json:"file_size"`
	StorageKey  string            `db:"storage_key" json:"storage_key"`
	Status      RecognitionStatus `db:"status" json:"status"`
	Result      json.RawMessage   `db:"result" json:"result"`
	Error       string            `db:"error" json:"error"`
	SupplierINN string            `db:"supplier_inn" json:"supplier_inn"`
	DocNumber   string            `db:"doc_number" json:"doc_number"`
	TotalSum    float64           `db:"total_sum" json:"total_sum"`
	ItemCount   int               `db:"item_count" json:"item_count"`
	Models      string            `db:"models" json:"models"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// Submission is a reviewed document sent to 1C, as produced by the web app.
type Submission struct {
	SupplierINN    string     `json:"SupplierINN"`
	DocNumber      string     `json:"DocNumber"`
	DocDate        string     `json:"DocDate"`
	TotalSum       float64    `json:"TotalSum"`
	Items          []LineItem `json:"Items"`
	DocumentIndex  int        `json:"documentIndex,omitempty"`
	TotalDocuments int        `json:"totalDocuments,omitempty"`
}

// AccountingResult is the reply of the 1C endpoint.
type AccountingResult struct {
	Success   bool   `json:"success"`
	DocNumber string `json:"doc_number,omitempty"`
	Error     string `json:"error,omitempty"`
	Debug     string `json:"debug,omitempty"`
}

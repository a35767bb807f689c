package handler

import (
	"github.com/google/uuid"

	"scan1c/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// ScanResponse is the payload of POST /api/v1/scans.
type ScanResponse struct {
	ID     *uuid.UUID             `json:"id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Result *domain.DocumentResult `json:"result"`
}

// DownloadURLResponse carries a presigned link to the archived original.
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url" example:"https://bucket.s3.amazonaws.com/scans/2026/10/550e8400.jpg?X-Amz-Signature=..."`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database: connection refused"`
}

// WebhookStatus is returned to Telegram and by the webhook setup endpoint.
type WebhookStatus struct {
	Status     string `json:"status" example:"ok"`
	WebhookURL string `json:"webhook_url,omitempty" example:"https://scan.example.com/api/webhook/secret"`
	Message    string `json:"message,omitempty"`
}

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody represents an error response.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}

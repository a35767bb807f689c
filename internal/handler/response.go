package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"scan1c/internal/domain"
	"scan1c/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrEmptyFile):
		return http.StatusBadRequest, "EMPTY_FILE", "file is empty"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png, webp, gif"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrRecognitionNotFound):
		return http.StatusNotFound, "RECOGNITION_NOT_FOUND", "recognition not found"
	case errors.Is(err, domain.ErrPersistenceDisabled):
		return http.StatusServiceUnavailable, "HISTORY_DISABLED", "recognition history is not enabled"
	case errors.Is(err, domain.ErrNotArchived):
		return http.StatusNotFound, "NOT_ARCHIVED", "original file is not archived"
	case errors.Is(err, domain.ErrInvalidExportFormat):
		return http.StatusBadRequest, "INVALID_EXPORT_FORMAT", "invalid export format; allowed: xlsx, csv"
	case errors.Is(err, domain.ErrInvalidINN):
		return http.StatusBadRequest, "INVALID_INN", "supplier INN must contain 10 or 12 digits"
	case errors.Is(err, domain.ErrNoItems):
		return http.StatusBadRequest, "NO_ITEMS", "document must contain at least one item"
	case errors.Is(err, domain.ErrEmptyItemName):
		return http.StatusBadRequest, "EMPTY_ITEM_NAME", "every item must have a name"
	case errors.Is(err, domain.ErrAccountingRejected):
		return http.StatusBadGateway, "ACCOUNTING_REJECTED", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		logrus.WithField("request_id", c.GetString(middleware.RequestIDKey)).
			Errorf("internal error: %v", err)
	}
	RespondError(c, status, code, msg)
}

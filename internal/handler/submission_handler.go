package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"scan1c/internal/domain"
	"scan1c/internal/service"
)

// SubmissionHandler posts reviewed documents to 1C.
type SubmissionHandler struct {
	submissions service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissions service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Submit handles POST /api/v1/documents/submit
// @Summary Send a reviewed document to 1C
// @Description Validates the document, recomputes line totals and posts it to the configured 1C endpoint.
// @Tags documents
// @Accept json
// @Produce json
// @Param body body domain.Submission true "Reviewed document"
// @Success 200 {object} Response{data=domain.AccountingResult}
// @Failure 400 {object} ErrorResponseBody "Validation failed"
// @Failure 502 {object} ErrorResponseBody "1C rejected the document"
// @Router /api/v1/documents/submit [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var sub domain.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.submissions.Submit(c.Request.Context(), &sub)
	if err != nil {
		if errors.Is(err, domain.ErrAccountingRejected) && result != nil {
			c.JSON(http.StatusBadGateway, APIResponse{
				Success: false,
				Data:    result,
				Error:   &APIError{Code: "ACCOUNTING_REJECTED", Message: result.Error},
			})
			return
		}
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scan1c/internal/domain"
	"scan1c/internal/handler"
	"scan1c/mocks"
)

func jsonRequest(target, body string) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

const validSubmission = `{"SupplierINN":"7707083893","DocNumber":"17","DocDate":"01.02.2024",
	"Items":[{"ItemName":"Болт","ItemArticle":"B-1","Quantity":2,"Price":10}],
	"documentIndex":0,"totalDocuments":1}`

func TestSubmissionHandler_Submit_Success(t *testing.T) {
	mockSvc := new(mocks.MockSubmissionService)
	h := handler.NewSubmissionHandler(mockSvc)

	mockSvc.On("Submit", mock.Anything, mock.MatchedBy(func(s *domain.Submission) bool {
		return s.SupplierINN == "7707083893" && s.Items[0].ItemArticle == "B-1" && s.TotalDocuments == 1
	})).Return(&domain.AccountingResult{Success: true, DocNumber: "00042"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("/api/v1/documents/submit", validSubmission)

	h.Submit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool                    `json:"success"`
		Data    domain.AccountingResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "00042", resp.Data.DocNumber)
	mockSvc.AssertExpectations(t)
}

func TestSubmissionHandler_Submit_InvalidJSON(t *testing.T) {
	mockSvc := new(mocks.MockSubmissionService)
	h := handler.NewSubmissionHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("/api/v1/documents/submit", `{"Items": "nope"`)

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmissionHandler_Submit_ValidationError(t *testing.T) {
	mockSvc := new(mocks.MockSubmissionService)
	h := handler.NewSubmissionHandler(mockSvc)

	mockSvc.On("Submit", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidINN)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("/api/v1/documents/submit", `{"SupplierINN":"12"}`)

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_INN", resp.Error.Code)
}

func TestSubmissionHandler_Submit_Rejected(t *testing.T) {
	mockSvc := new(mocks.MockSubmissionService)
	h := handler.NewSubmissionHandler(mockSvc)

	result := &domain.AccountingResult{Success: false, Error: "Контрагент не найден"}
	mockSvc.On("Submit", mock.Anything, mock.Anything).
		Return(result, fmt.Errorf("%w: %s", domain.ErrAccountingRejected, result.Error))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("/api/v1/documents/submit", validSubmission)

	h.Submit(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "ACCOUNTING_REJECTED", resp.Error.Code)
	assert.Equal(t, "Контрагент не найден", resp.Error.Message)
	assert.NotNil(t, resp.Data)
}

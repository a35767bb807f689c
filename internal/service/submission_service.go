package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"scan1c/internal/domain"
	"scan1c/internal/port"
	"scan1c/internal/recognizer"
)

var innPattern = regexp.MustCompile(`^(\d{10}|\d{12})$`)

// SubmissionService defines the contract for sending reviewed documents to 1C.
type SubmissionService interface {
	Submit(ctx context.Context, sub *domain.Submission) (*domain.AccountingResult, error)
}

type submissionService struct {
	accounting port.AccountingClient
}

// NewSubmissionService creates a new SubmissionService implementation.
func NewSubmissionService(accounting port.AccountingClient) SubmissionService {
	return &submissionService{accounting: accounting}
}

// ValidateSubmission applies the same checks as the web app before a
// document is posted: a 10 or 12 digit INN, at least one item and no item
// without a name.
func ValidateSubmission(sub *domain.Submission) error {
	if !innPattern.MatchString(strings.TrimSpace(sub.SupplierINN)) {
		return domain.ErrInvalidINN
	}
	if len(sub.Items) == 0 {
		return domain.ErrNoItems
	}
	for _, it := range sub.Items {
		if strings.TrimSpace(it.ItemName) == "" {
			return domain.ErrEmptyItemName
		}
	}
	return nil
}

// Submit validates sub, recomputes its totals and posts it. When 1C answers
// with success=false the result is returned together with an error wrapping
// domain.ErrAccountingRejected.
func (s *submissionService) Submit(ctx context.Context, sub *domain.Submission) (*domain.AccountingResult, error) {
	if err := ValidateSubmission(sub); err != nil {
		return nil, err
	}

	sub.SupplierINN = strings.TrimSpace(sub.SupplierINN)
	sub.DocNumber = strings.TrimSpace(sub.DocNumber)
	sub.DocDate = strings.TrimSpace(sub.DocDate)
	for i := range sub.Items {
		sub.Items[i].ItemName = strings.TrimSpace(sub.Items[i].ItemName)
		sub.Items[i].ItemArticle = strings.TrimSpace(sub.Items[i].ItemArticle)
	}
	sub.TotalSum = recognizer.RecomputeTotals(sub.Items)

	log := logrus.WithFields(logrus.Fields{
		"component":    "service.Submit",
		"supplier_inn": sub.SupplierINN,
		"doc_number":   sub.DocNumber,
		"items":        len(sub.Items),
		"total_sum":    sub.TotalSum,
	})
	if sub.TotalDocuments > 1 {
		log = log.WithField("document", fmt.Sprintf("%d/%d", sub.DocumentIndex+1, sub.TotalDocuments))
	}

	result, err := s.accounting.SendDocument(ctx, sub)
	if err != nil {
		log.Errorf("sending to 1C failed: %v", err)
		return nil, fmt.Errorf("sending to 1C: %w", err)
	}
	if !result.Success {
		log.Warnf("1C rejected document: %s", result.Error)
		return result, fmt.Errorf("%w: %s", domain.ErrAccountingRejected, result.Error)
	}
	log.WithField("onec_doc_number", result.DocNumber).Info("document accepted by 1C")
	return result, nil
}

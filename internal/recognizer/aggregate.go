package recognizer

import (
	"fmt"
	"math"

	"scan1c/internal/domain"
)

// PageOutcome is the result of recognizing one page: either Page or Err is set.
type PageOutcome struct {
	Page *domain.PageResult
	Err  error
}

// Aggregate merges per-page outcomes into one document. Header fields come
// from the first successful page and items are concatenated in page order.
// A failing page contributes no items and a warning. If every page failed the
// result is a recognition error carrying the first page's message.
func Aggregate(pages []PageOutcome) *domain.DocumentResult {
	if len(pages) == 0 {
		return domain.NewRecognitionError("document has no pages")
	}

	result := &domain.DocumentResult{Items: []domain.LineItem{}, PageCount: len(pages)}
	headerSet := false
	var firstErr error
	var reported float64

	for i, p := range pages {
		if p.Err != nil || p.Page == nil {
			err := p.Err
			if err == nil {
				err = fmt.Errorf("page was not recognized")
			}
			if firstErr == nil {
				firstErr = err
			}
			result.Warnings = append(result.Warnings, fmt.Sprintf("страница %d: %s", i+1, err.Error()))
			continue
		}

		if !headerSet {
			result.SupplierINN = p.Page.SupplierINN
			result.DocNumber = p.Page.DocNumber
			result.DocDate = p.Page.DocDate
			headerSet = true
		}
		result.Items = append(result.Items, p.Page.Items...)
		if p.Page.ReportedTotal > 0 {
			reported = p.Page.ReportedTotal
		}
	}

	if !headerSet {
		failed := domain.NewRecognitionError(firstErr.Error())
		failed.PageCount = len(pages)
		return failed
	}

	result.TotalSum = SumTotals(result.Items)
	if w := totalWarning(reported, result.TotalSum); w != "" {
		result.Warnings = append(result.Warnings, w)
	}
	return result
}

// FromPage wraps a single normalized page as a document result.
func FromPage(page *domain.PageResult) *domain.DocumentResult {
	items := page.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	result := &domain.DocumentResult{
		SupplierINN: page.SupplierINN,
		DocNumber:   page.DocNumber,
		DocDate:     page.DocDate,
		Items:       items,
		TotalSum:    SumTotals(items),
		PageCount:   1,
	}
	if w := totalWarning(page.ReportedTotal, result.TotalSum); w != "" {
		result.Warnings = []string{w}
	}
	return result
}

// totalWarning flags a document whose printed total, as read by the model,
// differs from the sum of its lines. The printed total usually sits on the
// last page, so for multi-page documents the last reported value is used.
func totalWarning(reported, computed float64) string {
	if reported <= 0 || math.Round(reported*100) == math.Round(computed*100) {
		return ""
	}
	return fmt.Sprintf("итог в документе %.2f не совпадает с суммой строк %.2f", reported, computed)
}

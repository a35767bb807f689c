package recognizer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan1c/internal/domain"
	"scan1c/internal/recognizer"
)

func TestAggregate_TwoPages(t *testing.T) {
	page1 := &domain.PageResult{
		SupplierINN: "123",
		DocNumber:   "A-1",
		DocDate:     "01.01.2024",
		Items:       []domain.LineItem{{ItemName: "first", Quantity: 2, Price: 5, Total: 10}},
	}
	page2 := &domain.PageResult{
		SupplierINN: "999",
		DocNumber:   "B-2",
		Items:       []domain.LineItem{{ItemName: "second", Quantity: 1, Price: 10, Total: 10}},
	}

	result := recognizer.Aggregate([]recognizer.PageOutcome{{Page: page1}, {Page: page2}})

	require.False(t, result.Failed())
	assert.Equal(t, "123", result.SupplierINN)
	assert.Equal(t, "A-1", result.DocNumber)
	assert.Equal(t, "01.01.2024", result.DocDate)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "first", result.Items[0].ItemName)
	assert.Equal(t, "second", result.Items[1].ItemName)
	assert.Equal(t, 20.0, result.TotalSum)
	assert.Equal(t, 2, result.PageCount)
	assert.Empty(t, result.Warnings)
}

func TestAggregate_FailedPageDegradesGracefully(t *testing.T) {
	page2 := &domain.PageResult{
		SupplierINN: "555",
		Items:       []domain.LineItem{{ItemName: "x", Quantity: 1, Price: 7, Total: 7}},
	}
	page3 := &domain.PageResult{
		Items: []domain.LineItem{{ItemName: "y", Quantity: 1, Price: 3, Total: 3}},
	}

	result := recognizer.Aggregate([]recognizer.PageOutcome{
		{Err: errors.New("model down")},
		{Page: page2},
		{Page: page3},
	})

	require.False(t, result.Failed())
	assert.Equal(t, "555", result.SupplierINN)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 10.0, result.TotalSum)
	assert.Equal(t, []string{"страница 1: model down"}, result.Warnings)
}

func TestAggregate_AllPagesFailed(t *testing.T) {
	result := recognizer.Aggregate([]recognizer.PageOutcome{
		{Err: errors.New("first failure")},
		{Err: errors.New("second failure")},
	})

	assert.True(t, result.Failed())
	assert.Equal(t, "first failure", result.Error)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
}

func TestAggregate_NoPages(t *testing.T) {
	result := recognizer.Aggregate(nil)

	assert.True(t, result.Failed())
	assert.Empty(t, result.Items)
}

func TestAggregate_TotalSumIsSumOfItems(t *testing.T) {
	pages := []recognizer.PageOutcome{
		{Page: &domain.PageResult{Items: []domain.LineItem{{Total: 0.1}, {Total: 0.2}}}},
		{Page: &domain.PageResult{Items: []domain.LineItem{{Total: 33.335}}}},
	}

	result := recognizer.Aggregate(pages)

	assert.Equal(t, recognizer.SumTotals(result.Items), result.TotalSum)
	assert.Equal(t, 33.64, result.TotalSum)
}

func TestFromPage_NilItems(t *testing.T) {
	result := recognizer.FromPage(&domain.PageResult{SupplierINN: "1"})

	assert.NotNil(t, result.Items)
	assert.Equal(t, 0.0, result.TotalSum)
	assert.Equal(t, 1, result.PageCount)
}

func TestFromPage_ReportedTotalMismatchIsWarning(t *testing.T) {
	page := &domain.PageResult{
		Items:         []domain.LineItem{{ItemName: "a", Quantity: 2, Price: 5, Total: 10}},
		ReportedTotal: 100,
	}

	result := recognizer.FromPage(page)

	assert.Equal(t, 10.0, result.TotalSum)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "100.00")
	assert.Contains(t, result.Warnings[0], "10.00")
}

func TestFromPage_MatchingOrMissingReportedTotal(t *testing.T) {
	items := []domain.LineItem{{ItemName: "a", Quantity: 3, Price: 0.1, Total: 0.3}}

	assert.Empty(t, recognizer.FromPage(&domain.PageResult{Items: items, ReportedTotal: 0.3}).Warnings)
	assert.Empty(t, recognizer.FromPage(&domain.PageResult{Items: items}).Warnings)
}

func TestAggregate_ReportedTotalFromLastPage(t *testing.T) {
	page1 := &domain.PageResult{
		Items:         []domain.LineItem{{ItemName: "a", Quantity: 2, Price: 5, Total: 10}},
		ReportedTotal: 10,
	}
	page2 := &domain.PageResult{
		Items:         []domain.LineItem{{ItemName: "b", Quantity: 1, Price: 10, Total: 10}},
		ReportedTotal: 20,
	}

	result := recognizer.Aggregate([]recognizer.PageOutcome{{Page: page1}, {Page: page2}})
	assert.Empty(t, result.Warnings)

	page2.ReportedTotal = 25
	result = recognizer.Aggregate([]recognizer.PageOutcome{{Page: page1}, {Page: page2}})
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "25.00")
}

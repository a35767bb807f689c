package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"scan1c/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var itemColumns = []string{
	"№",
	"Артикул",
	"Наименование",
	"Количество",
	"Цена",
	"Сумма",
}

// CSVWriter wraps csv.Writer for exporting recognized line items.
type CSVWriter struct {
	out io.Writer
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{out: w, csv: csv.NewWriter(w)}
}

// WriteDocument writes the BOM, a header row, one row per item and a total row.
func (w *CSVWriter) WriteDocument(doc *domain.DocumentResult) error {
	if _, err := w.out.Write(BOM); err != nil {
		return err
	}
	if err := w.csv.Write(itemColumns); err != nil {
		return err
	}
	for i, it := range doc.Items {
		row := []string{
			strconv.Itoa(i + 1),
			it.ItemArticle,
			it.ItemName,
			formatNumber(it.Quantity),
			formatMoney(it.Price),
			formatMoney(it.Total),
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	if err := w.csv.Write([]string{"", "", "Итого", "", "", formatMoney(doc.TotalSum)}); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

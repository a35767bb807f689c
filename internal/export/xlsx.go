package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"scan1c/internal/domain"
)

const sheetName = "Накладная"

// WriteXLSX renders doc as a single-sheet workbook: a header block with the
// supplier and document fields, the item table and the total.
func WriteXLSX(w io.Writer, doc *domain.DocumentResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	header := [][]interface{}{
		{"ИНН поставщика", doc.SupplierINN},
		{"Номер документа", doc.DocNumber},
		{"Дата документа", doc.DocDate},
	}
	for i, row := range header {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "A3", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	const tableRow = 5
	columns := make([]interface{}, len(itemColumns))
	for i, c := range itemColumns {
		columns[i] = c
	}
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", tableRow), &columns); err != nil {
		return fmt.Errorf("writing columns: %w", err)
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", tableRow), fmt.Sprintf("F%d", tableRow), bold); err != nil {
		return fmt.Errorf("styling columns: %w", err)
	}

	row := tableRow + 1
	for i, it := range doc.Items {
		values := []interface{}{i + 1, it.ItemArticle, it.ItemName, it.Quantity, it.Price, it.Total}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("writing item %d: %w", i+1, err)
		}
		row++
	}

	total := []interface{}{"Итого", doc.TotalSum}
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("E%d", row), &total); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), bold); err != nil {
		return fmt.Errorf("styling total: %w", err)
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("E%d", tableRow+1), fmt.Sprintf("F%d", row), money); err != nil {
		return fmt.Errorf("styling amounts: %w", err)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 18)
	_ = f.SetColWidth(sheetName, "B", "B", 16)
	_ = f.SetColWidth(sheetName, "C", "C", 48)
	_ = f.SetColWidth(sheetName, "D", "F", 14)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

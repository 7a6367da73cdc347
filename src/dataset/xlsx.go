package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the table (header plus all rows) to an Excel workbook at
// path. It is an export only: the table's path and dirty state are untouched.
func (t *Table) ExportXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	writeRow := func(rowIdx int, cells []string) error {
		for col, v := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, t.columns); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	for i, row := range t.rows {
		if err := writeRow(i+2, row); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

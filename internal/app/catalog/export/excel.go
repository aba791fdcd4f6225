// Package export writes rendered catalog tables to spreadsheet files.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/render_table"
)

// SheetName is the name of the single worksheet in exported workbooks.
const SheetName = "Inventory"

// ContentType is the MIME type of an .xlsx file.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook writes table to an .xlsx file: a header row of column names, then
// one row per product. Numeric values are stored as numbers so they stay
// usable in spreadsheet formulas; unresolved formula cells are left empty.
func Workbook(table *render_table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E0E0E0"},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("create number style: %w", err)
	}

	for i, col := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, sanitizeExcelCell(col.Name)); err != nil {
			return nil, fmt.Errorf("write header %s: %w", col.Name, err)
		}
	}
	if len(table.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(table.Columns), 1)
		if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
	}

	for r, row := range table.Rows {
		for c, cell := range row.Cells {
			ref, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if cell.Unresolved || cell.Value == nil {
				continue
			}
			switch v := cell.Value.(type) {
			case float64:
				if err := f.SetCellFloat(SheetName, ref, v, -1, 64); err != nil {
					return nil, fmt.Errorf("write cell %s: %w", ref, err)
				}
				if err := f.SetCellStyle(SheetName, ref, ref, numberStyle); err != nil {
					return nil, fmt.Errorf("style cell %s: %w", ref, err)
				}
			case string:
				if err := f.SetCellStr(SheetName, ref, sanitizeExcelCell(v)); err != nil {
					return nil, fmt.Errorf("write cell %s: %w", ref, err)
				}
			default:
				if err := f.SetCellValue(SheetName, ref, v); err != nil {
					return nil, fmt.Errorf("write cell %s: %w", ref, err)
				}
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell keeps text from being read as a spreadsheet formula.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

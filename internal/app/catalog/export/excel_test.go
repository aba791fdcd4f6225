package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/render_table"
)

func TestWorkbook(t *testing.T) {
	table := &render_table.Table{
		Columns: []render_table.Header{
			{Name: "number", Type: domain.ColumnText},
			{Name: "basePrice", Type: domain.ColumnNumber},
			{Name: "price15", Type: domain.ColumnFormula},
			{Name: "loop", Type: domain.ColumnFormula, Unresolved: true},
		},
		Rows: []render_table.Row{
			{Cells: []render_table.Cell{
				{Column: "number", Value: "=HYPERLINK(\"x\")"},
				{Column: "basePrice", Value: 40.0},
				{Column: "price15", Value: 46.0},
				{Column: "loop", Value: 0.0, Unresolved: true},
			}},
			{Cells: []render_table.Cell{
				{Column: "number", Value: "SH-002"},
				{Column: "basePrice", Value: 1234.5},
				{Column: "price15", Value: 1419.68},
				{Column: "loop", Value: 0.0, Unresolved: true},
			}},
		},
	}

	data, err := Workbook(table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	header, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.NotEmpty(t, header)
	assert.Equal(t, []string{"number", "basePrice", "price15", "loop"}, header[0])

	cells := map[string]string{
		"A2": "'=HYPERLINK(\"x\")",
		"B2": "40",
		"C2": "46",
		"D2": "",
		"A3": "SH-002",
		"B3": "1234.5",
		"C3": "1419.68",
		"D3": "",
	}
	for ref, want := range cells {
		got, err := f.GetCellValue(SheetName, ref, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, want, got, ref)
	}
}

func TestWorkbook_EmptyTable(t *testing.T) {
	data, err := Workbook(&render_table.Table{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestSanitizeExcelCell(t *testing.T) {
	assert.Equal(t, "", sanitizeExcelCell(""))
	assert.Equal(t, "'-1", sanitizeExcelCell("-1"))
	assert.Equal(t, "SH-001", sanitizeExcelCell("SH-001"))
}

// Package spreadsheet writes tabular exports as XLSX workbooks.
package spreadsheet

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet   = "Sheet1"
	minColumnWidth = 10
	maxColumnWidth = 60
	maxSheetName   = 31
)

// XLSXWriter encodes a table as a single-sheet workbook with a bold header
// row. Every cell is written as text so amounts keep their currency prefix.
type XLSXWriter struct{}

// NewXLSXWriter creates a new XLSXWriter
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Write renders the table into an in-memory workbook
func (w *XLSXWriter) Write(sheet string, table printing.Table) (data []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sheet = sheetName(sheet)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4F46E5"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	widths := make([]int, len(table.Columns))
	header := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
		widths[i] = utf8.RuneCountInString(c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for r, row := range table.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(v))
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if len(table.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(table.Columns))
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
		for i, width := range widths {
			col, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetColWidth(sheet, col, col, float64(min(max(width+2, minColumnWidth), maxColumnWidth))); err != nil {
				return nil, fmt.Errorf("failed to size column %s: %w", col, err)
			}
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("failed to freeze header: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName trims a name to the 31 characters Excel allows
func sheetName(name string) string {
	if name == "" {
		return defaultSheet
	}
	runes := []rune(name)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	return string(runes)
}

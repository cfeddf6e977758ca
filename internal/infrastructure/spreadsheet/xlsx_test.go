package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestXLSXWriter_Write(t *testing.T) {
	table := printing.Table{
		Title:   "Order Summary",
		Columns: []string{"Order ID", "Customer", "Phone", "Due Date", "Status", "Amount", "Balance"},
		Rows: [][]string{
			{"#1B2C3D", "Ravi Kumar", "98765 43210", "Oct 22, 2026", "Pending", "₹2500", "₹1500"},
			{"#00AA11", "Anil", "90000 11111", "-", "Delivered", "₹900", "₹0"},
		},
	}

	data, err := NewXLSXWriter().Write("Orders", table)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Orders"}, f.GetSheetList())

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Columns, rows[0])
	assert.Equal(t, table.Rows[0], rows[1])
	assert.Equal(t, table.Rows[1], rows[2])
}

func TestXLSXWriter_HeaderOnly(t *testing.T) {
	data, err := NewXLSXWriter().Write("Customers", printing.Table{
		Columns: []string{"Name", "Reference", "Phone", "Measurements Summary"},
	})
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows("Customers")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestXLSXWriter_SameInputSameCells(t *testing.T) {
	table := printing.Table{
		Columns: []string{"Name"},
		Rows:    [][]string{{"Ravi"}, {"Anil"}},
	}
	w := NewXLSXWriter()

	first, err := w.Write("Customers", table)
	require.NoError(t, err)
	second, err := w.Write("Customers", table)
	require.NoError(t, err)

	a, err := openWorkbook(t, first).GetRows("Customers")
	require.NoError(t, err)
	b, err := openWorkbook(t, second).GetRows("Customers")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName(""))
	assert.Equal(t, "Orders", sheetName("Orders"))
	assert.Len(t, sheetName(strings.Repeat("x", 40)), 31)
}

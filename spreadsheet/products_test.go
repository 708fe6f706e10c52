package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func sample() []models.Product {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []models.Product{{
		ID:                "prod-1",
		SKU:               "SKU-1000",
		Name:              "Basmati Rice 5kg",
		Description:       "Aged long grain basmati rice",
		Category:          "Groceries",
		Price:             decimal.RequireFromString("649.5"),
		Discount:          decimal.NewFromInt(5),
		Stock:             40,
		LowStockThreshold: 8,
		Images:            []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
		IsAvailable:       false,
		CreatedAt:         at,
		UpdatedAt:         at,
	}}
}

func TestExportThenImport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample()))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Equal(t, SheetName, file.Sheets[0].Name)
	assert.Equal(t, "649.50", file.Sheets[0].Rows[1].Cells[colPrice].String())

	rows, rowErrors, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, 2, got.Line)
	assert.Equal(t, "SKU-1000", got.Input.SKU)
	assert.Equal(t, "Basmati Rice 5kg", got.Input.Name)
	assert.True(t, got.Input.Price.Equal(decimal.RequireFromString("649.5")))
	assert.True(t, got.Input.Discount.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 40, got.Input.Stock)
	assert.Equal(t, 8, got.Input.LowStockThreshold)
	assert.Len(t, got.Input.Images, 2)
	require.NotNil(t, got.Input.IsAvailable)
	assert.False(t, *got.Input.IsAvailable)
}

func TestReadReportsBadRows(t *testing.T) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	require.NoError(t, err)
	for _, values := range [][]string{
		Headers,
		{"", "SKU-1", "Tea", "Assam tea leaves 250g", "Groceries", "abc", "0", "3", "1"},
		{"", "SKU-2", "Coffee"},
		{"", "SKU-3", "Sugar", "Refined white sugar 1kg", "Groceries", "55", "", "12.0", "2"},
	} {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetValue(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))

	rows, rowErrors, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rowErrors, 2)
	assert.Contains(t, rowErrors[0], "row 2: invalid price")
	assert.Contains(t, rowErrors[1], "row 3")

	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Line)
	assert.Equal(t, 12, rows[0].Input.Stock)
	assert.True(t, rows[0].Input.Discount.IsZero())
	assert.Nil(t, rows[0].Input.IsAvailable)
}

func TestReadRejectsEmptyWorkbook(t *testing.T) {
	file := xlsx.NewFile()
	_, err := file.AddSheet(SheetName)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))

	_, _, err = Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = Read(bytes.NewReader([]byte("not a zip")), 9)
	assert.ErrorIs(t, err, models.ErrValidation)
}

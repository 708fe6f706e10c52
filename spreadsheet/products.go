// Package spreadsheet reads and writes the product catalog as an xlsx workbook.
// The same layout is used for admin export, import and the nightly backup.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/services"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

const (
	SheetName   = "Products"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04:05"
)

// Column order of the products sheet.
var Headers = []string{
	"ID", "SKU", "Name", "Description", "Category",
	"Price", "Discount", "Stock", "LowStockThreshold",
	"Images", "IsAvailable", "CreatedAt", "UpdatedAt",
}

const (
	colID = iota
	colSKU
	colName
	colDescription
	colCategory
	colPrice
	colDiscount
	colStock
	colLowStock
	colImages
	colAvailable
)

// minCells is the number of columns an import row must carry.
const minCells = colLowStock + 1

// Build lays products out on a single sheet, one row each after the header.
func Build(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range Headers {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.SKU)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.Discount.String())
		row.AddCell().SetValue(strconv.Itoa(p.Stock))
		row.AddCell().SetValue(strconv.Itoa(p.LowStockThreshold))
		row.AddCell().SetValue(strings.Join(p.Images, ","))
		row.AddCell().SetValue(strconv.FormatBool(p.IsAvailable))
		row.AddCell().SetValue(p.CreatedAt.Format(timeLayout))
		row.AddCell().SetValue(p.UpdatedAt.Format(timeLayout))
	}
	return file, nil
}

// Write streams the workbook for products to w.
func Write(w io.Writer, products []models.Product) error {
	file, err := Build(products)
	if err != nil {
		return err
	}
	return file.Write(w)
}

// Read parses the first sheet of an uploaded workbook. Rows that cannot be
// parsed are reported in rowErrors and left out of rows.
func Read(r io.ReaderAt, size int64) (rows []services.ImportRow, rowErrors []string, err error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: unreadable workbook: %v", models.ErrValidation, err)
	}
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return nil, nil, fmt.Errorf("%w: workbook is empty or missing header row", models.ErrValidation)
	}

	sheet := file.Sheets[0]
	rowErrors = []string{}
	for i := 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if row == nil || blank(row) {
			continue
		}
		line := i + 1
		in, err := parseRow(row)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		rows = append(rows, services.ImportRow{Line: line, Input: in})
	}
	return rows, rowErrors, nil
}

func blank(row *xlsx.Row) bool {
	for _, c := range row.Cells {
		if strings.TrimSpace(c.String()) != "" {
			return false
		}
	}
	return true
}

func parseRow(row *xlsx.Row) (services.ProductInput, error) {
	if len(row.Cells) < minCells {
		return services.ProductInput{}, fmt.Errorf("expected at least %d columns, got %d", minCells, len(row.Cells))
	}
	get := func(index int) string {
		if index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}

	price, err := decimal.NewFromString(get(colPrice))
	if err != nil {
		return services.ProductInput{}, fmt.Errorf("invalid price %q", get(colPrice))
	}
	discount := decimal.Zero
	if v := get(colDiscount); v != "" {
		if discount, err = decimal.NewFromString(v); err != nil {
			return services.ProductInput{}, fmt.Errorf("invalid discount %q", v)
		}
	}
	stock, err := wholeNumber(get(colStock))
	if err != nil {
		return services.ProductInput{}, fmt.Errorf("invalid stock %q", get(colStock))
	}
	threshold, err := wholeNumber(get(colLowStock))
	if err != nil {
		return services.ProductInput{}, fmt.Errorf("invalid low stock threshold %q", get(colLowStock))
	}

	in := services.ProductInput{
		SKU:               get(colSKU),
		Name:              get(colName),
		Description:       get(colDescription),
		Category:          get(colCategory),
		Price:             price,
		Discount:          discount,
		Stock:             stock,
		LowStockThreshold: threshold,
	}
	for _, img := range strings.Split(get(colImages), ",") {
		if img = strings.TrimSpace(img); img != "" {
			in.Images = append(in.Images, img)
		}
	}
	if v := get(colAvailable); v != "" {
		ok, err := strconv.ParseBool(v)
		if err != nil {
			return services.ProductInput{}, fmt.Errorf("invalid availability %q", v)
		}
		in.IsAvailable = &ok
	}
	return in, nil
}

// wholeNumber accepts "12" as well as the "12.0" some editors save.
func wholeNumber(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("not a whole number")
	}
	return int(d.IntPart()), nil
}

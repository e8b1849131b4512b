// internal/adapters/spreadsheet/xlsx.go
package spreadsheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockscan/internal/core/domain"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Inventory"

// Headers is the column layout of exported workbooks. Imports accept these
// headers in any order.
var Headers = []string{
	"Barcode", "Stock Number", "Supplier", "Description",
	"Cost Price", "Selling Price", "Quantity",
}

// Encode renders items as a single-sheet workbook
func Encode(items []domain.InventoryItem) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range Headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range items {
		item := &items[i]
		row := sheet.AddRow()
		row.AddCell().SetString(item.BarcodeValue())
		row.AddCell().SetString(item.StockNumber)
		row.AddCell().SetString(item.Supplier)
		row.AddCell().SetString(item.Description)
		row.AddCell().SetNumeric(item.CostPrice.StringFixed(2))
		row.AddCell().SetNumeric(item.SellingPrice.StringFixed(2))
		row.AddCell().SetInt(item.Quantity)
	}

	for i := range Headers {
		sheet.SetColWidth(i+1, i+1, 18)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

// Decode reads drafts from the first sheet of a workbook. The first row must
// be a header row; fully blank rows are skipped.
func Decode(data []byte) ([]domain.ItemDraft, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, &domain.FormatError{Reason: "not a readable workbook", Err: err}
	}
	if len(file.Sheets) == 0 {
		return nil, &domain.FormatError{Reason: "workbook has no sheets"}
	}

	sheet := file.Sheets[0]
	var (
		columns map[string]int
		drafts  []domain.ItemDraft
		rowIdx  int
	)

	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		defer func() { rowIdx++ }()

		values := rowValues(r, sheet.MaxCol)
		if rowIdx == 0 {
			columns = headerIndex(values)
			return nil
		}
		if isBlank(values) {
			return nil
		}

		get := func(header string) domain.FieldValue {
			idx, ok := columns[normalizeHeader(header)]
			if !ok || idx >= len(values) {
				return ""
			}
			return domain.FieldValue(values[idx])
		}

		drafts = append(drafts, domain.ItemDraft{
			Barcode:      get("Barcode"),
			StockNumber:  get("Stock Number"),
			Supplier:     get("Supplier"),
			Description:  get("Description"),
			CostPrice:    get("Cost Price"),
			SellingPrice: get("Selling Price"),
			Quantity:     get("Quantity"),
		})
		return nil
	})
	if err != nil {
		return nil, &domain.FormatError{Reason: "failed to read rows", Err: err}
	}
	if columns == nil {
		return nil, &domain.FormatError{Reason: "workbook has no header row"}
	}

	return drafts, nil
}

func rowValues(r *xlsx.Row, maxCol int) []string {
	values := make([]string, maxCol)
	for i := 0; i < maxCol; i++ {
		if c := r.GetCell(i); c != nil {
			values[i] = strings.TrimSpace(c.Value)
		}
	}
	return values
}

// headerIndex maps known headers to their column. Unknown layouts fall back
// to the export column order.
func headerIndex(values []string) map[string]int {
	known := make(map[string]bool, len(Headers))
	for _, h := range Headers {
		known[normalizeHeader(h)] = true
	}

	index := make(map[string]int)
	for i, v := range values {
		key := normalizeHeader(v)
		if known[key] {
			if _, dup := index[key]; !dup {
				index[key] = i
			}
		}
	}

	if len(index) == 0 {
		for i, h := range Headers {
			index[normalizeHeader(h)] = i
		}
	}
	return index
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func isBlank(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

// RowLabel formats a data row number the way spreadsheet users count rows
func RowLabel(dataIdx int) string {
	return strconv.Itoa(dataIdx + 2)
}

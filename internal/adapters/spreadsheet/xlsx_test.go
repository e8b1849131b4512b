// internal/adapters/spreadsheet/xlsx_test.go
package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockscan/internal/core/domain"
)

func workbook(t *testing.T, rows ...[]string) []byte {
	t.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestEncodeThenDecode(t *testing.T) {
	barcode := "5012345678900"
	now := time.Now().UTC()
	items := []domain.InventoryItem{
		{
			ID: "a", Barcode: &barcode, StockNumber: "SN-1", Supplier: "Acme",
			Description: "Widget", CostPrice: decimal.RequireFromString("1.50"),
			SellingPrice: decimal.RequireFromString("2.99"), Quantity: 12,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "b", StockNumber: "SN-2", Supplier: "Bolt Co", Description: "Gadget",
			Quantity: 0, CreatedAt: now, UpdatedAt: now,
		},
	}

	data, err := Encode(items)
	require.NoError(t, err)

	drafts, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, domain.FieldValue("5012345678900"), drafts[0].Barcode)
	assert.Equal(t, domain.FieldValue("SN-1"), drafts[0].StockNumber)
	assert.Equal(t, domain.FieldValue("Widget"), drafts[0].Description)
	assert.Equal(t, domain.FieldValue("12"), drafts[0].Quantity)

	item, err := domain.NewInventoryItem(drafts[0], now)
	require.NoError(t, err)
	assert.True(t, item.CostPrice.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, item.SellingPrice.Equal(decimal.RequireFromString("2.99")))

	assert.Equal(t, domain.FieldValue(""), drafts[1].Barcode)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		data      func(t *testing.T) []byte
		wantLen   int
		wantErr   bool
		checkFunc func(t *testing.T, drafts []domain.ItemDraft)
	}{
		{
			name: "headers_in_any_order",
			data: func(t *testing.T) []byte {
				return workbook(t,
					[]string{"quantity", "Description", "SUPPLIER", "stock_number"},
					[]string{"4", "Lamp", "Lumen", "L-1"},
				)
			},
			wantLen: 1,
			checkFunc: func(t *testing.T, drafts []domain.ItemDraft) {
				assert.Equal(t, domain.FieldValue("L-1"), drafts[0].StockNumber)
				assert.Equal(t, domain.FieldValue("Lumen"), drafts[0].Supplier)
				assert.Equal(t, domain.FieldValue("4"), drafts[0].Quantity)
				assert.Equal(t, domain.FieldValue(""), drafts[0].Barcode)
			},
		},
		{
			name: "blank_rows_skipped",
			data: func(t *testing.T) []byte {
				return workbook(t,
					Headers,
					[]string{"", "", "", "", "", "", ""},
					[]string{"", "S-9", "Sup", "Thing", "1", "2", "3"},
				)
			},
			wantLen: 1,
		},
		{
			name: "header_only",
			data: func(t *testing.T) []byte {
				return workbook(t, Headers)
			},
			wantLen: 0,
		},
		{
			name: "not_a_workbook",
			data: func(t *testing.T) []byte {
				return []byte("barcode,stock\n1,2\n")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := Decode(tt.data(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, drafts, tt.wantLen)
			if tt.checkFunc != nil {
				tt.checkFunc(t, drafts)
			}
		})
	}
}

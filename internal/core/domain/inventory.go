// internal/core/domain/inventory.go
package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the inclusive upper bound for an item to count as low stock.
const LowStockThreshold = 5

// InventoryItem represents a single stocked product
type InventoryItem struct {
	ID           string
	Barcode      *string
	StockNumber  string
	Supplier     string
	Description  string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	Quantity     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// itemRecord is the persisted shape of an item. Prices are written as JSON numbers.
type itemRecord struct {
	ID           string      `json:"id"`
	Barcode      *string     `json:"barcode"`
	StockNumber  string      `json:"stockNumber"`
	Supplier     string      `json:"supplier"`
	Description  string      `json:"description"`
	CostPrice    json.Number `json:"costPrice"`
	SellingPrice json.Number `json:"sellingPrice"`
	Quantity     int         `json:"quantity"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// itemRecordIn accepts prices as numbers or numeric strings.
type itemRecordIn struct {
	ID           string          `json:"id"`
	Barcode      *string         `json:"barcode"`
	StockNumber  string          `json:"stockNumber"`
	Supplier     string          `json:"supplier"`
	Description  string          `json:"description"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Quantity     int             `json:"quantity"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// MarshalJSON implements json.Marshaler
func (i InventoryItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemRecord{
		ID:           i.ID,
		Barcode:      i.Barcode,
		StockNumber:  i.StockNumber,
		Supplier:     i.Supplier,
		Description:  i.Description,
		CostPrice:    json.Number(i.CostPrice.String()),
		SellingPrice: json.Number(i.SellingPrice.String()),
		Quantity:     i.Quantity,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (i *InventoryItem) UnmarshalJSON(data []byte) error {
	var rec itemRecordIn
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*i = InventoryItem{
		ID:           rec.ID,
		Barcode:      normalizeBarcode(rec.Barcode),
		StockNumber:  rec.StockNumber,
		Supplier:     rec.Supplier,
		Description:  rec.Description,
		CostPrice:    rec.CostPrice,
		SellingPrice: rec.SellingPrice,
		Quantity:     rec.Quantity,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	return nil
}

// HasBarcode reports whether the item carries a non-empty barcode
func (i *InventoryItem) HasBarcode() bool {
	return i.Barcode != nil && *i.Barcode != ""
}

// BarcodeValue returns the barcode or an empty string
func (i *InventoryItem) BarcodeValue() string {
	if i.Barcode == nil {
		return ""
	}
	return *i.Barcode
}

// Matches reports whether a lowercased query is a substring of any searchable field.
func (i *InventoryItem) Matches(lowerQuery string) bool {
	if lowerQuery == "" {
		return false
	}
	if strings.Contains(strings.ToLower(i.Description), lowerQuery) ||
		strings.Contains(strings.ToLower(i.StockNumber), lowerQuery) ||
		strings.Contains(strings.ToLower(i.Supplier), lowerQuery) {
		return true
	}
	return i.HasBarcode() && strings.Contains(strings.ToLower(*i.Barcode), lowerQuery)
}

// Touch moves UpdatedAt forward. It always advances, even when the clock has not.
func (i *InventoryItem) Touch(now time.Time) {
	now = now.UTC()
	if !now.After(i.UpdatedAt) {
		now = i.UpdatedAt.Add(time.Nanosecond)
	}
	i.UpdatedAt = now
}

// Value returns cost price times quantity
func (i *InventoryItem) Value() decimal.Decimal {
	return i.CostPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// FieldValue is a form value that decodes from a JSON string, number or null.
type FieldValue string

// UnmarshalJSON implements json.Unmarshaler
func (f *FieldValue) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*f = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FieldValue(s)
	default:
		*f = FieldValue(raw)
	}
	return nil
}

// ItemDraft holds raw user input for a new item
type ItemDraft struct {
	Barcode      FieldValue `json:"barcode"`
	StockNumber  FieldValue `json:"stockNumber"`
	Supplier     FieldValue `json:"supplier"`
	Description  FieldValue `json:"description"`
	CostPrice    FieldValue `json:"costPrice"`
	SellingPrice FieldValue `json:"sellingPrice"`
	Quantity     FieldValue `json:"quantity"`
}

// NewInventoryItem validates a draft and builds a record with a fresh id and timestamps.
// Unparsable prices and quantities are coerced to zero; negative ones are rejected.
func NewInventoryItem(draft ItemDraft, now time.Time) (*InventoryItem, error) {
	stockNumber := strings.TrimSpace(string(draft.StockNumber))
	supplier := strings.TrimSpace(string(draft.Supplier))
	description := strings.TrimSpace(string(draft.Description))

	if stockNumber == "" {
		return nil, &ValidationError{Field: "stockNumber", Reason: "is required"}
	}
	if supplier == "" {
		return nil, &ValidationError{Field: "supplier", Reason: "is required"}
	}
	if description == "" {
		return nil, &ValidationError{Field: "description", Reason: "is required"}
	}

	costPrice, err := coercePrice("costPrice", string(draft.CostPrice))
	if err != nil {
		return nil, err
	}
	sellingPrice, err := coercePrice("sellingPrice", string(draft.SellingPrice))
	if err != nil {
		return nil, err
	}
	quantity, err := coerceQuantity(string(draft.Quantity))
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	barcode := strings.TrimSpace(string(draft.Barcode))
	return &InventoryItem{
		ID:           uuid.NewString(),
		Barcode:      normalizeBarcode(&barcode),
		StockNumber:  stockNumber,
		Supplier:     supplier,
		Description:  description,
		CostPrice:    costPrice,
		SellingPrice: sellingPrice,
		Quantity:     quantity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ItemPatch is a partial update. Nil fields and empty strings keep the stored value.
type ItemPatch struct {
	ID           string           `json:"id"`
	Barcode      *string          `json:"barcode,omitempty"`
	ClearBarcode bool             `json:"clearBarcode,omitempty"`
	StockNumber  *string          `json:"stockNumber,omitempty"`
	Supplier     *string          `json:"supplier,omitempty"`
	Description  *string          `json:"description,omitempty"`
	CostPrice    *decimal.Decimal `json:"costPrice,omitempty"`
	SellingPrice *decimal.Decimal `json:"sellingPrice,omitempty"`
	Quantity     *int             `json:"quantity,omitempty"`
}

// Validate checks the patch before it is applied
func (p *ItemPatch) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if p.CostPrice != nil && p.CostPrice.IsNegative() {
		return &ValidationError{Field: "costPrice", Reason: "cannot be negative"}
	}
	if p.SellingPrice != nil && p.SellingPrice.IsNegative() {
		return &ValidationError{Field: "sellingPrice", Reason: "cannot be negative"}
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	return nil
}

// ApplyTo overlays the patch onto item. Numeric fields overlay whenever present, zero included.
func (p *ItemPatch) ApplyTo(item *InventoryItem, now time.Time) {
	overlayString(&item.StockNumber, p.StockNumber)
	overlayString(&item.Supplier, p.Supplier)
	overlayString(&item.Description, p.Description)

	switch {
	case p.ClearBarcode:
		item.Barcode = nil
	case p.Barcode != nil && strings.TrimSpace(*p.Barcode) != "":
		barcode := strings.TrimSpace(*p.Barcode)
		item.Barcode = &barcode
	}

	if p.CostPrice != nil {
		item.CostPrice = *p.CostPrice
	}
	if p.SellingPrice != nil {
		item.SellingPrice = *p.SellingPrice
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}

	item.Touch(now)
}

// ParsePositiveQuantity parses a sale quantity. Only whole numbers above zero are accepted.
func ParsePositiveQuantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func overlayString(dst *string, src *string) {
	if src == nil {
		return
	}
	if v := strings.TrimSpace(*src); v != "" {
		*dst = v
	}
}

func normalizeBarcode(b *string) *string {
	if b == nil || *b == "" {
		return nil
	}
	v := *b
	return &v
}

func coercePrice(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, nil
	}
	if d.IsNegative() {
		return decimal.Zero, &ValidationError{Field: field, Reason: "cannot be negative"}
	}
	return d, nil
}

func coerceQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, nil
		}
		n = int(f)
	}
	if n < 0 {
		return 0, &ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	return n, nil
}

// internal/core/domain/outcomes.go
package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MatchKind classifies how a scanned code resolved
type MatchKind string

const (
	MatchExact    MatchKind = "exact_match"
	MatchSingle   MatchKind = "single_match"
	MatchMultiple MatchKind = "multiple_matches"
	MatchNone     MatchKind = "no_match"
)

// Resolution is the outcome of resolving a code against the inventory.
// Item is set for exact and single matches, Items for multiple, Code for none.
type Resolution struct {
	Kind  MatchKind       `json:"kind"`
	Item  *InventoryItem  `json:"item,omitempty"`
	Items []InventoryItem `json:"items,omitempty"`
	Code  string          `json:"code,omitempty"`
}

// RemovalStatus classifies the outcome of a stock removal
type RemovalStatus string

const (
	RemovalSuccess           RemovalStatus = "success"
	RemovalNotFound          RemovalStatus = "not_found"
	RemovalInvalidQuantity   RemovalStatus = "invalid_quantity"
	RemovalInsufficientStock RemovalStatus = "insufficient_stock"
)

// StockRemoval is the outcome of removing stock from an item
type StockRemoval struct {
	Status    RemovalStatus  `json:"status"`
	Removed   int            `json:"removed,omitempty"`
	Available int            `json:"available,omitempty"`
	Item      *InventoryItem `json:"item,omitempty"`
}

// OK reports whether the removal was applied
func (r StockRemoval) OK() bool { return r.Status == RemovalSuccess }

// MarshalJSON implements json.Marshaler. Available is always written for
// insufficient stock, zero included.
func (r StockRemoval) MarshalJSON() ([]byte, error) {
	out := struct {
		Status    RemovalStatus  `json:"status"`
		Removed   int            `json:"removed,omitempty"`
		Available *int           `json:"available,omitempty"`
		Item      *InventoryItem `json:"item,omitempty"`
	}{Status: r.Status, Removed: r.Removed, Item: r.Item}
	if r.Status == RemovalInsufficientStock {
		available := r.Available
		out.Available = &available
	}
	return json.Marshal(out)
}

// RemoveStock applies a removal to item. The item is only modified on success.
func RemoveStock(item *InventoryItem, qty int, now time.Time) StockRemoval {
	switch {
	case item == nil:
		return StockRemoval{Status: RemovalNotFound}
	case qty <= 0:
		return StockRemoval{Status: RemovalInvalidQuantity}
	case qty > item.Quantity:
		return StockRemoval{Status: RemovalInsufficientStock, Available: item.Quantity}
	}

	item.Quantity -= qty
	item.Touch(now)
	return StockRemoval{Status: RemovalSuccess, Removed: qty, Item: item}
}

// Stats aggregates the collection
type Stats struct {
	TotalItems      int             `json:"totalItems"`
	TotalStock      int             `json:"totalStock"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	LowStockItems   int             `json:"lowStockItems"`
	OutOfStockItems int             `json:"outOfStockItems"`
}

// ComputeStats summarizes items
func ComputeStats(items []InventoryItem) Stats {
	stats := Stats{TotalItems: len(items), TotalValue: decimal.Zero}
	for i := range items {
		stats.TotalStock += items[i].Quantity
		stats.TotalValue = stats.TotalValue.Add(items[i].Value())
		switch {
		case items[i].Quantity == 0:
			stats.OutOfStockItems++
		case items[i].Quantity <= LowStockThreshold:
			stats.LowStockItems++
		}
	}
	return stats
}

// IsLowStock reports whether the item is in stock but at or below the threshold
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity > 0 && i.Quantity <= LowStockThreshold
}

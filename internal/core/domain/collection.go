// internal/core/domain/collection.go
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EncodeCollection serializes items as a JSON array
func EncodeCollection(items []InventoryItem) ([]byte, error) {
	if items == nil {
		items = []InventoryItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode inventory: %w", err)
	}
	return data, nil
}

// DecodeCollection parses a persisted collection. An empty payload is an empty
// collection; anything that is not an array of items is a FormatError.
func DecodeCollection(data []byte) ([]InventoryItem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []InventoryItem{}, nil
	}
	if trimmed[0] != '[' {
		return nil, &FormatError{Reason: "payload is not a list of items"}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &FormatError{Reason: "malformed JSON", Err: err}
	}

	items := make([]InventoryItem, 0, len(raw))
	for idx, r := range raw {
		var item InventoryItem
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, &FormatError{Reason: fmt.Sprintf("record %d is not an item", idx), Err: err}
		}
		items = append(items, item)
	}
	return Dedupe(items), nil
}

// Dedupe keeps the first position of each id with the last value written for it.
// Records without an id are never merged.
func Dedupe(items []InventoryItem) []InventoryItem {
	index := make(map[string]int, len(items))
	out := make([]InventoryItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			out = append(out, item)
			continue
		}
		if pos, ok := index[item.ID]; ok {
			out[pos] = item
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

// NormalizeImported fills identity and timestamps missing from imported records.
func NormalizeImported(items []InventoryItem, now time.Time) []InventoryItem {
	now = now.UTC()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
		if items[i].UpdatedAt.Before(items[i].CreatedAt) {
			items[i].UpdatedAt = items[i].CreatedAt
		}
		if items[i].Quantity < 0 {
			items[i].Quantity = 0
		}
	}
	return Dedupe(items)
}

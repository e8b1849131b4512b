// internal/core/ports/inventory_repository.go
package ports

import (
	"context"

	"github.com/ammerola/stockscan/internal/core/domain"
)

// InventoryRepository owns the inventory collection. Every mutation is a
// read-modify-write of the whole collection against the backing store.
type InventoryRepository interface {
	GetAll(ctx context.Context, forceRefresh bool) ([]domain.InventoryItem, error)
	GetByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	GetByBarcode(ctx context.Context, barcode string) (*domain.InventoryItem, error)
	Search(ctx context.Context, query string) ([]domain.InventoryItem, error)
	Add(ctx context.Context, draft domain.ItemDraft) (*domain.InventoryItem, error)
	Update(ctx context.Context, patch domain.ItemPatch) (*domain.InventoryItem, error)
	RemoveStock(ctx context.Context, id string, qty int) (domain.StockRemoval, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetStats(ctx context.Context) (domain.Stats, error)
	ExportAll(ctx context.Context) ([]byte, error)
	ImportAll(ctx context.Context, data []byte) (int, error)
	ClearAll(ctx context.Context) error
}

// internal/core/ports/inventory_resolver.go
package ports

import (
	"context"

	"github.com/ammerola/stockscan/internal/core/domain"
)

// InventoryResolver routes scanned codes and sales to the repository
type InventoryResolver interface {
	ResolveCode(ctx context.Context, code string) (domain.Resolution, error)
	Sell(ctx context.Context, itemID string, qty int) (domain.StockRemoval, error)
}

// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/services"
	"github.com/ammerola/stockscan/test/helpers"
)

var itemDescriptions = []string{
	"Antique Victorian silver tea set with ornate engravings",
	"Modern abstract painting on canvas by local artist",
	"Vintage Lionel train set in original box with tracks",
	"Crystal wine glasses set of 12 Waterford pattern",
	"Mahogany dining table with six matching chairs",
	"Gold pocket watch with chain, circa 1890",
	"Collection of first edition books, various authors",
	"Persian rug 8x10 hand-woven wool traditional pattern",
	"Brass telescope on wooden tripod, nautical style",
	"China cabinet with glass doors, oak construction",
}

var suppliers = []string{"Acme", "Globex", "Initech", "Umbrella"}

// createBenchmarkItems builds a realistic collection. Every seventh item has no barcode.
func createBenchmarkItems(n int) []domain.InventoryItem {
	now := time.Now().UTC()
	items := make([]domain.InventoryItem, n)
	for i := range items {
		var barcode *string
		if i%7 != 0 {
			b := fmt.Sprintf("978%010d", i)
			barcode = &b
		}
		items[i] = domain.InventoryItem{
			ID:           fmt.Sprintf("bench-%06d", i),
			Barcode:      barcode,
			StockNumber:  fmt.Sprintf("SN-%05d", i),
			Supplier:     suppliers[i%len(suppliers)],
			Description:  itemDescriptions[i%len(itemDescriptions)],
			CostPrice:    decimal.NewFromInt(int64(10 + i%90)),
			SellingPrice: decimal.NewFromInt(int64(25 + i%90)),
			Quantity:     i % 40,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	return items
}

// createBenchmarkRepository seeds an in-memory store with n items
func createBenchmarkRepository(n int, opts ...services.Option) (*services.Repository, *helpers.MemoryStore) {
	store := helpers.NewMemoryStore(false)
	store.SeedItems(createBenchmarkItems(n))
	return services.NewRepository(store, helpers.TestLogger(), opts...), store
}

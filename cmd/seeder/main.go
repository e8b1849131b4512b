// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"

	"github.com/ammerola/stockscan/internal/adapters/spreadsheet"
	"github.com/ammerola/stockscan/internal/bootstrap"
	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
	"github.com/ammerola/stockscan/internal/pkg/config"
	"github.com/ammerola/stockscan/internal/pkg/logger"
)

type seedOptions struct {
	clear  bool
	dryRun bool
	count  int
	file   string
	seed   int64
}

func main() {
	var opts seedOptions
	flag.BoolVar(&opts.clear, "clear", false, "Empty the inventory before seeding")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Print the items instead of adding them")
	flag.IntVar(&opts.count, "count", 25, "Number of generated sample items")
	flag.StringVar(&opts.file, "file", "", "Seed from an .xlsx workbook instead of generated items")
	flag.Int64Var(&opts.seed, "seed", 1, "Random seed for generated items")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	drafts, err := loadDrafts(afero.NewOsFs(), opts)
	if err != nil {
		slogger.Error("failed to prepare seed data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if opts.dryRun {
		for i, d := range drafts {
			fmt.Printf("%3d  %-10s %-18s %-40s qty=%s\n", i+1, d.StockNumber, d.Supplier, d.Description, d.Quantity)
		}
		return
	}

	backend, err := bootstrap.NewBackend(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize inventory store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()

	repo := bootstrap.NewRepository(backend.Store, cfg, slogger)

	added, err := seed(ctx, repo, drafts, opts.clear, slogger)
	if err != nil {
		slogger.Error("seeding failed",
			slog.Int("added", added),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger.Info("seeding complete",
		slog.String("backend", cfg.Store.Backend),
		slog.Int("added", added),
		slog.Int("skipped", len(drafts)-added))
}

func loadDrafts(fs afero.Fs, opts seedOptions) ([]domain.ItemDraft, error) {
	if opts.file == "" {
		return sampleDrafts(opts.count, rand.New(rand.NewSource(opts.seed))), nil
	}

	data, err := afero.ReadFile(fs, opts.file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", opts.file, err)
	}
	return spreadsheet.Decode(data)
}

// seed adds every draft through the repository. Drafts that fail validation
// are logged and skipped.
func seed(ctx context.Context, repo ports.InventoryRepository, drafts []domain.ItemDraft, clear bool, logger *slog.Logger) (int, error) {
	if clear {
		if err := repo.ClearAll(ctx); err != nil {
			return 0, fmt.Errorf("failed to clear inventory: %w", err)
		}
		logger.Info("inventory cleared")
	}

	added := 0
	for i, draft := range drafts {
		item, err := repo.Add(ctx, draft)
		if err != nil {
			if domain.IsValidationError(err) {
				logger.Warn("skipping invalid item",
					slog.Int("index", i),
					slog.String("error", err.Error()))
				continue
			}
			return added, fmt.Errorf("failed to add item %d: %w", i, err)
		}
		added++
		logger.Debug("item added",
			slog.String("id", item.ID),
			slog.String("stock_number", item.StockNumber))
	}
	return added, nil
}

var (
	suppliers = []string{"Acme Wholesale", "Northwind Traders", "Globex Supply", "Bolt & Co", "Initech Imports"}
	products  = []string{
		"Stainless steel water bottle 750ml",
		"USB-C charging cable 1m",
		"Ceramic coffee mug",
		"Wireless optical mouse",
		"A5 ruled notebook",
		"LED desk lamp",
		"Cotton tote bag",
		"AA alkaline batteries 4-pack",
		"Phone stand aluminium",
		"Bamboo cutting board",
	}
)

// sampleDrafts generates count plausible items. Every third item has no barcode.
func sampleDrafts(count int, rnd *rand.Rand) []domain.ItemDraft {
	drafts := make([]domain.ItemDraft, 0, count)
	for i := 0; i < count; i++ {
		cost := decimal.NewFromInt(int64(50 + rnd.Intn(2000))).Shift(-2)
		markup := decimal.NewFromFloat(1.4 + rnd.Float64()).Round(2)

		var barcode string
		if i%3 != 2 {
			barcode = fmt.Sprintf("50%011d", rnd.Int63n(1e11))
		}

		drafts = append(drafts, domain.ItemDraft{
			Barcode:      domain.FieldValue(barcode),
			StockNumber:  domain.FieldValue(fmt.Sprintf("SN-%04d", i+1)),
			Supplier:     domain.FieldValue(suppliers[rnd.Intn(len(suppliers))]),
			Description:  domain.FieldValue(products[i%len(products)]),
			CostPrice:    domain.FieldValue(cost.StringFixed(2)),
			SellingPrice: domain.FieldValue(cost.Mul(markup).StringFixed(2)),
			Quantity:     domain.FieldValue(strconv.Itoa(rnd.Intn(25))),
		})
	}
	return drafts
}

// internal/core/services/repository.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// DefaultCacheTTL is how long a remote read is served from memory
const DefaultCacheTTL = 30 * time.Second

// Repository implements ports.InventoryRepository over a DocumentStore
type Repository struct {
	store   ports.DocumentStore
	cache   *snapshotCache
	writeMu *sync.Mutex
	now     func() time.Time
	logger  *slog.Logger

	cacheTTL        time.Duration
	cacheConfigured bool
}

// Statically assert that *Repository implements the InventoryRepository interface.
var _ ports.InventoryRepository = (*Repository)(nil)

// Option configures a Repository
type Option func(*Repository)

// WithReadCache overrides the read cache ttl. A ttl of zero disables caching.
func WithReadCache(ttl time.Duration) Option {
	return func(r *Repository) {
		r.cacheTTL = ttl
		r.cacheConfigured = true
	}
}

// WithSerializedWrites serializes mutations made through this Repository
func WithSerializedWrites() Option {
	return func(r *Repository) {
		r.writeMu = &sync.Mutex{}
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository creates a repository. Remote stores get a DefaultCacheTTL read cache
// unless WithReadCache says otherwise.
func NewRepository(store ports.DocumentStore, logger *slog.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		now:    time.Now,
		logger: logger.With(slog.String("service", "inventory_repository")),
	}
	for _, opt := range opts {
		opt(r)
	}

	ttl := r.cacheTTL
	if !r.cacheConfigured && store.Remote() {
		ttl = DefaultCacheTTL
	}
	if ttl > 0 {
		r.cache = newSnapshotCache(ttl, r.now)
	}

	return r
}

// GetAll returns every item. forceRefresh bypasses the read cache.
func (r *Repository) GetAll(ctx context.Context, forceRefresh bool) ([]domain.InventoryItem, error) {
	snap, err := r.read(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return cloneItems(snap.items), nil
}

// GetByID returns the item with id, or nil
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	snap, err := r.read(ctx, false)
	if err != nil {
		return nil, err
	}
	if idx := indexOf(snap.items, id); idx >= 0 {
		return cloneItem(snap.items[idx]), nil
	}
	return nil, nil
}

// GetByBarcode returns the item whose barcode equals barcode exactly, or nil
func (r *Repository) GetByBarcode(ctx context.Context, barcode string) (*domain.InventoryItem, error) {
	if barcode == "" {
		return nil, nil
	}
	snap, err := r.read(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range snap.items {
		if snap.items[i].HasBarcode() && *snap.items[i].Barcode == barcode {
			return cloneItem(snap.items[i]), nil
		}
	}
	return nil, nil
}

// Search returns items where query is a case-insensitive substring of the
// description, stock number, supplier or barcode. An empty query matches nothing.
func (r *Repository) Search(ctx context.Context, query string) ([]domain.InventoryItem, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.InventoryItem{}, nil
	}

	snap, err := r.read(ctx, false)
	if err != nil {
		return nil, err
	}

	results := make([]domain.InventoryItem, 0)
	for i := range snap.items {
		if snap.items[i].Matches(q) {
			results = append(results, *cloneItem(snap.items[i]))
		}
	}
	return results, nil
}

// Add validates draft and appends a new item
func (r *Repository) Add(ctx context.Context, draft domain.ItemDraft) (*domain.InventoryItem, error) {
	item, err := domain.NewInventoryItem(draft, r.now())
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err = r.mutate(ctx, "add", func(items []domain.InventoryItem) ([]domain.InventoryItem, bool) {
		return append(items, *item), true
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "inventory item added",
		slog.String("item_id", item.ID),
		slog.String("stock_number", item.StockNumber))

	return item, nil
}

// Update overlays patch onto the stored item. It returns nil when no item has patch.ID.
func (r *Repository) Update(ctx context.Context, patch domain.ItemPatch) (*domain.InventoryItem, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var updated *domain.InventoryItem
	err := r.mutate(ctx, "update", func(items []domain.InventoryItem) ([]domain.InventoryItem, bool) {
		idx := indexOf(items, patch.ID)
		if idx < 0 {
			return items, false
		}
		patch.ApplyTo(&items[idx], r.now())
		updated = cloneItem(items[idx])
		return items, true
	})
	if err != nil {
		return nil, err
	}

	if updated != nil {
		r.logger.InfoContext(ctx, "inventory item updated", slog.String("item_id", updated.ID))
	}
	return updated, nil
}

// RemoveStock decrements an item's quantity. Business outcomes are reported in the
// StockRemoval; only store failures are errors.
func (r *Repository) RemoveStock(ctx context.Context, id string, qty int) (domain.StockRemoval, error) {
	var outcome domain.StockRemoval
	err := r.mutate(ctx, "remove_stock", func(items []domain.InventoryItem) ([]domain.InventoryItem, bool) {
		var target *domain.InventoryItem
		if idx := indexOf(items, id); idx >= 0 {
			target = &items[idx]
		}
		outcome = domain.RemoveStock(target, qty, r.now())
		if outcome.OK() {
			outcome.Item = cloneItem(*target)
		}
		return items, outcome.OK()
	})
	if err != nil {
		return domain.StockRemoval{}, err
	}

	r.logger.InfoContext(ctx, "stock removal evaluated",
		slog.String("item_id", id),
		slog.Int("quantity", qty),
		slog.String("status", string(outcome.Status)))

	return outcome, nil
}

// Delete removes the item with id and reports whether it existed
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.mutate(ctx, "delete", func(items []domain.InventoryItem) ([]domain.InventoryItem, bool) {
		idx := indexOf(items, id)
		if idx < 0 {
			return items, false
		}
		deleted = true
		return append(items[:idx], items[idx+1:]...), true
	})
	if err != nil {
		return false, err
	}

	if deleted {
		r.logger.InfoContext(ctx, "inventory item deleted", slog.String("item_id", id))
	}
	return deleted, nil
}

// GetStats summarizes the collection
func (r *Repository) GetStats(ctx context.Context) (domain.Stats, error) {
	snap, err := r.read(ctx, false)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.ComputeStats(snap.items), nil
}

// ExportAll serializes the full collection
func (r *Repository) ExportAll(ctx context.Context) ([]byte, error) {
	snap, err := r.read(ctx, true)
	if err != nil {
		return nil, err
	}
	return domain.EncodeCollection(snap.items)
}

// ImportAll replaces the collection with data. A payload that is not a list of
// items is rejected with a FormatError and nothing is written.
func (r *Repository) ImportAll(ctx context.Context, data []byte) (int, error) {
	items, err := domain.DecodeCollection(data)
	if err != nil {
		return 0, err
	}
	items = domain.NormalizeImported(items, r.now())

	err = r.mutate(ctx, "import", func([]domain.InventoryItem) ([]domain.InventoryItem, bool) {
		return items, true
	})
	if err != nil {
		return 0, err
	}

	r.logger.InfoContext(ctx, "inventory imported", slog.Int("count", len(items)))
	return len(items), nil
}

// ClearAll empties the collection
func (r *Repository) ClearAll(ctx context.Context) error {
	err := r.mutate(ctx, "clear", func([]domain.InventoryItem) ([]domain.InventoryItem, bool) {
		return []domain.InventoryItem{}, true
	})
	if err != nil {
		return err
	}

	r.logger.WarnContext(ctx, "inventory cleared")
	return nil
}

// read returns the collection, from cache when allowed. A failed remote fetch
// falls back to the last snapshot when there is one.
func (r *Repository) read(ctx context.Context, forceRefresh bool) (snapshot, error) {
	if r.cache == nil {
		return r.load(ctx)
	}

	if !forceRefresh {
		if snap, ok := r.cache.fresh(); ok {
			return snap, nil
		}
	}

	snap, err := r.cache.fetch(ctx, r.load)
	if err == nil {
		return snap, nil
	}

	if stale, ok := r.cache.stale(); ok {
		r.logger.WarnContext(ctx, "serving stale inventory after fetch failure",
			slog.String("error", err.Error()))
		return stale, nil
	}
	return snapshot{}, err
}

// load reads and decodes the document. Corrupt data is treated as empty.
func (r *Repository) load(ctx context.Context) (snapshot, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return snapshot{}, asStoreError("load", err)
	}

	items, err := domain.DecodeCollection(doc.Data)
	if err != nil {
		r.logger.WarnContext(ctx, "stored inventory is corrupt, treating as empty",
			slog.String("error", err.Error()))
		items = []domain.InventoryItem{}
	}

	return snapshot{items: items, version: doc.Version}, nil
}

// mutate performs one read-modify-write of the whole collection. fn reports
// whether it changed anything; unchanged collections are not written back.
func (r *Repository) mutate(ctx context.Context, op string, fn func([]domain.InventoryItem) ([]domain.InventoryItem, bool)) error {
	if r.writeMu != nil {
		r.writeMu.Lock()
		defer r.writeMu.Unlock()
	}

	current, err := r.load(ctx)
	if err != nil {
		return err
	}

	items, changed := fn(cloneItems(current.items))
	if !changed {
		if r.cache != nil {
			r.cache.put(current)
		}
		return nil
	}

	data, err := domain.EncodeCollection(items)
	if err != nil {
		return fmt.Errorf("failed to %s inventory item: %w", op, err)
	}

	version, err := r.store.Save(ctx, data, current.version)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to save inventory",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return asStoreError("save", err)
	}

	if r.cache != nil {
		r.cache.put(snapshot{items: cloneItems(items), version: version})
	}
	return nil
}

func asStoreError(op string, err error) error {
	var se *domain.StoreError
	if errors.As(err, &se) {
		return err
	}
	return domain.NewStoreError(op, err)
}

func indexOf(items []domain.InventoryItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneItem(item domain.InventoryItem) *domain.InventoryItem {
	if item.Barcode != nil {
		b := *item.Barcode
		item.Barcode = &b
	}
	return &item
}

func cloneItems(items []domain.InventoryItem) []domain.InventoryItem {
	out := make([]domain.InventoryItem, len(items))
	for i := range items {
		out[i] = *cloneItem(items[i])
	}
	return out
}

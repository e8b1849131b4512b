// internal/core/services/resolver.go
package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// Resolver turns scanned codes into lookup outcomes and validates sales
type Resolver struct {
	repo   ports.InventoryRepository
	logger *slog.Logger
}

var _ ports.InventoryResolver = (*Resolver)(nil)

// NewResolver creates a resolver over repo
func NewResolver(repo ports.InventoryRepository, logger *slog.Logger) *Resolver {
	return &Resolver{
		repo:   repo,
		logger: logger.With(slog.String("service", "resolver")),
	}
}

// ResolveCode tries an exact barcode match first and falls back to substring search.
// Surrounding whitespace is not part of the code.
func (s *Resolver) ResolveCode(ctx context.Context, code string) (domain.Resolution, error) {
	code = strings.TrimSpace(code)

	item, err := s.repo.GetByBarcode(ctx, code)
	if err != nil {
		return domain.Resolution{}, err
	}
	if item != nil {
		s.logger.DebugContext(ctx, "code resolved by barcode",
			slog.String("code", code),
			slog.String("item_id", item.ID))
		return domain.Resolution{Kind: domain.MatchExact, Item: item}, nil
	}

	matches, err := s.repo.Search(ctx, code)
	if err != nil {
		return domain.Resolution{}, err
	}

	s.logger.DebugContext(ctx, "code resolved by search",
		slog.String("code", code),
		slog.Int("matches", len(matches)))

	switch len(matches) {
	case 0:
		return domain.Resolution{Kind: domain.MatchNone, Code: code}, nil
	case 1:
		return domain.Resolution{Kind: domain.MatchSingle, Item: &matches[0]}, nil
	default:
		return domain.Resolution{Kind: domain.MatchMultiple, Items: matches}, nil
	}
}

// Sell removes qty units of itemID. Non-positive quantities are rejected
// without touching the repository.
func (s *Resolver) Sell(ctx context.Context, itemID string, qty int) (domain.StockRemoval, error) {
	if qty <= 0 {
		return domain.StockRemoval{Status: domain.RemovalInvalidQuantity}, nil
	}

	outcome, err := s.repo.RemoveStock(ctx, itemID, qty)
	if err != nil {
		return domain.StockRemoval{}, err
	}

	s.logger.InfoContext(ctx, "sale processed",
		slog.String("item_id", itemID),
		slog.Int("quantity", qty),
		slog.String("status", string(outcome.Status)))

	return outcome, nil
}

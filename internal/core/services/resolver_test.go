package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/services"
	"github.com/ammerola/stockscan/test/helpers"
	"github.com/ammerola/stockscan/test/mocks"
)

func TestResolver_ResolveCode(t *testing.T) {
	storeErr := domain.NewStoreError("load", errors.New("timeout"))
	items := helpers.CreateTestInventoryItems(3)

	tests := []struct {
		name      string
		code      string
		setupMock func(*mocks.MockInventoryRepository)
		wantKind  domain.MatchKind
		wantCount int
		wantErr   error
	}{
		{
			name: "exact_barcode_wins",
			code: "5012345600001",
			setupMock: func(m *mocks.MockInventoryRepository) {
				m.EXPECT().GetByBarcode(gomock.Any(), "5012345600001").Return(&items[0], nil)
			},
			wantKind:  domain.MatchExact,
			wantCount: 1,
		},
		{
			name: "padded_code_matches_barcode",
			code: " 5012345600001\t",
			setupMock: func(m *mocks.MockInventoryRepository) {
				m.EXPECT().GetByBarcode(gomock.Any(), "5012345600001").Return(&items[0], nil)
			},
			wantKind:  domain.MatchExact,
			wantCount: 1,
		},
		{
			name: "single_search_result",
			code: "Item 2",
			setupMock: func(m *mocks.MockInventoryRepository) {
				m.EXPECT().GetByBarcode(gomock.Any(), "Item 2").Return(nil, nil)
				m.EXPECT().Search(gomock.Any(), "Item 2").Return(items[1:2], nil)
			},
			wantKind:  domain.MatchSingle,
			wantCount: 1,
		},
		{
			name: "multiple_search_results",
			code: "test",
			setupMock: func(m *mocks.MockInventoryRepository) {
				m.EXPECT().GetByBarcode(gomock.Any(), "test").Return(nil, nil)
				m.EXPECT().Search(gomock.Any(), "test").Return(items, nil)
			},
			wantKind:  domain.MatchMultiple,
			wantCount: 3,
		},
		{
			name: "no_match_keeps_code",
			code: "nonexistent",
			setupMock: func(m *mocks.MockInventoryRepository) {
				m.EXPECT().GetByBarcode(gomock.Any(), "nonexistent").Return(nil, nil)
				m.EXPECT().Search(gomock.Any(), "nonexistent").Return([]domain.InventoryItem{}, nil)
			},
			wantKind: domain.MatchNone,
		},
		{
			name: "barcode_lookup_failure",
			code: "123",
			setupMock: func(m *mocks.MockInventoryRepository) {
				m.EXPECT().GetByBarcode(gomock.Any(), "123").Return(nil, storeErr)
			},
			wantErr: storeErr,
		},
		{
			name: "search_failure",
			code: "123",
			setupMock: func(m *mocks.MockInventoryRepository) {
				m.EXPECT().GetByBarcode(gomock.Any(), "123").Return(nil, nil)
				m.EXPECT().Search(gomock.Any(), "123").Return(nil, storeErr)
			},
			wantErr: storeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockInventoryRepository(ctrl)
			tt.setupMock(repo)

			resolver := services.NewResolver(repo, helpers.TestLogger())
			res, err := resolver.ResolveCode(context.Background(), tt.code)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, res.Kind)

			switch res.Kind {
			case domain.MatchExact, domain.MatchSingle:
				require.NotNil(t, res.Item)
			case domain.MatchMultiple:
				assert.Len(t, res.Items, tt.wantCount)
			case domain.MatchNone:
				assert.Equal(t, tt.code, res.Code)
				assert.Nil(t, res.Item)
			}
		})
	}
}

func TestResolver_Sell(t *testing.T) {
	tests := []struct {
		name       string
		qty        int
		setupMock  func(*mocks.MockInventoryRepository)
		wantStatus domain.RemovalStatus
		wantErr    bool
	}{
		{
			name:       "zero_rejected_without_repository",
			qty:        0,
			setupMock:  func(m *mocks.MockInventoryRepository) {},
			wantStatus: domain.RemovalInvalidQuantity,
		},
		{
			name:       "negative_rejected_without_repository",
			qty:        -4,
			setupMock:  func(m *mocks.MockInventoryRepository) {},
			wantStatus: domain.RemovalInvalidQuantity,
		},
		{
			name: "success_passes_through",
			qty:  2,
			setupMock: func(m *mocks.MockInventoryRepository) {
				m.EXPECT().RemoveStock(gomock.Any(), "item-0001", 2).
					Return(domain.StockRemoval{Status: domain.RemovalSuccess, Removed: 2}, nil)
			},
			wantStatus: domain.RemovalSuccess,
		},
		{
			name: "insufficient_passes_through",
			qty:  50,
			setupMock: func(m *mocks.MockInventoryRepository) {
				m.EXPECT().RemoveStock(gomock.Any(), "item-0001", 50).
					Return(domain.StockRemoval{Status: domain.RemovalInsufficientStock, Available: 10}, nil)
			},
			wantStatus: domain.RemovalInsufficientStock,
		},
		{
			name: "store_failure",
			qty:  1,
			setupMock: func(m *mocks.MockInventoryRepository) {
				m.EXPECT().RemoveStock(gomock.Any(), "item-0001", 1).
					Return(domain.StockRemoval{}, domain.NewStoreError("save", errors.New("boom")))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockInventoryRepository(ctrl)
			tt.setupMock(repo)

			resolver := services.NewResolver(repo, helpers.TestLogger())
			outcome, err := resolver.Sell(context.Background(), "item-0001", tt.qty)

			if tt.wantErr {
				assert.True(t, domain.IsStoreError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, outcome.Status)
		})
	}
}

// Scan-and-sell flow against a real repository
func TestResolver_ScanScenario(t *testing.T) {
	store := helpers.NewMemoryStore(false)
	repo := services.NewRepository(store, helpers.TestLogger())
	resolver := services.NewResolver(repo, helpers.TestLogger())
	ctx := context.Background()

	widget, err := repo.Add(ctx, widgetDraft())
	require.NoError(t, err)

	byBarcode, err := repo.GetByBarcode(ctx, "123")
	require.NoError(t, err)
	require.NotNil(t, byBarcode)
	assert.Equal(t, widget.ID, byBarcode.ID)

	res, err := resolver.ResolveCode(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchExact, res.Kind)
	assert.Equal(t, widget.ID, res.Item.ID)

	_, err = repo.Add(ctx, helpers.CreateTestDraft(func(d *domain.ItemDraft) {
		d.Barcode = ""
		d.Description = "Widget XL"
	}))
	require.NoError(t, err)

	res, err = resolver.ResolveCode(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchMultiple, res.Kind)
	assert.Len(t, res.Items, 2)

	res, err = resolver.ResolveCode(ctx, "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchNone, res.Kind)

	sold, err := resolver.Sell(ctx, widget.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.RemovalSuccess, sold.Status)
	assert.Equal(t, 7, sold.Item.Quantity)

	over, err := resolver.Sell(ctx, widget.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.RemovalInsufficientStock, over.Status)
	assert.Equal(t, 7, over.Available)
}

// internal/adapters/db/document_store_test.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockscan/internal/core/domain"
)

func newTestStore(t *testing.T) (*DocumentStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDocumentStore(sqlDB, "shop-1", logger), mock
}

func TestDocumentStore_Load(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(mock sqlmock.Sqlmock)
		wantData    string
		wantVersion string
		wantErr     bool
	}{
		{
			name: "existing_row",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT payload, version FROM inventory_documents").
					WithArgs("shop-1").
					WillReturnRows(sqlmock.NewRows([]string{"payload", "version"}).
						AddRow([]byte(`[{"id":"a"}]`), int64(7)))
			},
			wantData:    `[{"id":"a"}]`,
			wantVersion: "7",
		},
		{
			name: "missing_row_is_empty",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT payload, version FROM inventory_documents").
					WithArgs("shop-1").
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "query_failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT payload, version FROM inventory_documents").
					WithArgs("shop-1").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newTestStore(t)
			tt.setup(mock)

			doc, err := store.Load(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsStoreError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantData, string(doc.Data))
				assert.Equal(t, tt.wantVersion, doc.Version)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDocumentStore_Save(t *testing.T) {
	tests := []struct {
		name        string
		expected    string
		setup       func(mock sqlmock.Sqlmock)
		wantVersion string
		wantErr     error
	}{
		{
			name:     "first_write_upserts",
			expected: "",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO inventory_documents").
					WithArgs("shop-1", "[]", 1, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(1)))
			},
			wantVersion: "1",
		},
		{
			name:     "conditional_update",
			expected: "3",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE inventory_documents SET payload").
					WithArgs("[]", sqlmock.AnyArg(), "shop-1", int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(4)))
			},
			wantVersion: "4",
		},
		{
			name:     "stale_version_conflicts",
			expected: "3",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE inventory_documents SET payload").
					WithArgs("[]", sqlmock.AnyArg(), "shop-1", int64(3)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrVersionConflict,
		},
		{
			name:     "malformed_version_conflicts",
			expected: "etag-abc",
			setup:    func(mock sqlmock.Sqlmock) {},
			wantErr:  domain.ErrVersionConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newTestStore(t)
			tt.setup(mock)

			version, err := store.Save(context.Background(), []byte("[]"), tt.expected)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, domain.IsStoreError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantVersion, version)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDocumentStore_Remote(t *testing.T) {
	store, _ := newTestStore(t)
	assert.True(t, store.Remote())
}

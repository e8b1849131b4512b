//go:build integration
// +build integration

// internal/adapters/db/document_store_integration_test.go
package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockscan/internal/adapters/db"
	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/test/helpers"
)

func TestDocumentStore_Integration(t *testing.T) {
	testDB := helpers.SetupTestDB(t)
	helpers.TruncateDocuments(t, testDB.DB)

	ctx := context.Background()
	store := db.NewDocumentStore(testDB.DB, "integration", helpers.TestLogger())

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Data)

	v1, err := store.Save(ctx, []byte(`[]`), "")
	require.NoError(t, err)
	assert.Equal(t, "1", v1)

	v2, err := store.Save(ctx, []byte(`[{"id":"a"}]`), v1)
	require.NoError(t, err)
	assert.Equal(t, "2", v2)

	_, err = store.Save(ctx, []byte(`[]`), v1)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	doc, err = store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(doc.Data))
	assert.Equal(t, v2, doc.Version)

	require.NoError(t, store.Ping(ctx))
}

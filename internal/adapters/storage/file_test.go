package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/test/helpers"
)

func TestFileStore_LoadSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "/data/inventory.json", "/data/backups", helpers.TestLogger())
	ctx := context.Background()

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Data, "missing file is an empty document")

	_, err = store.Save(ctx, []byte(`[{"id":"a"}]`), "ignored")
	require.NoError(t, err)

	doc, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(doc.Data))
	assert.Empty(t, doc.Version)

	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestFileStore_SaveFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	store := NewFileStore(fs, "/data/inventory.json", "", helpers.TestLogger())

	_, err := store.Save(context.Background(), []byte("[]"), "")
	assert.True(t, domain.IsStoreError(err))
	assert.False(t, store.Remote())
}

func TestFileStore_PutBackup(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "/data/inventory.json", "/data/backups", helpers.TestLogger())

	path, err := store.PutBackup(context.Background(), "../escape.json", strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Equal(t, "/data/backups/escape.json", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/stockscan/internal/adapters/redis_adapter"
	"github.com/ammerola/stockscan/internal/adapters/storage"
	"github.com/ammerola/stockscan/internal/pkg/config"
	"github.com/ammerola/stockscan/test/helpers"
)

func TestNewBackend_File(t *testing.T) {
	dir := t.TempDir()
	cfg := helpers.LoadTestConfig()
	cfg.File.Path = filepath.Join(dir, "inventory.json")
	cfg.File.BackupDir = filepath.Join(dir, "backups")

	backend, err := NewBackend(context.Background(), cfg, helpers.TestLogger())
	require.NoError(t, err)
	defer backend.Close()

	assert.IsType(t, &storage.FileStore{}, backend.Store)
	assert.NotNil(t, backend.Backups)
	assert.False(t, backend.Store.Remote())
	require.NoError(t, backend.Store.Ping(context.Background()))
}

func TestNewBackend_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := helpers.LoadTestConfig()
	cfg.Store.Backend = config.BackendRedis
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()
	cfg.Redis.KeyPrefix = "test"
	cfg.File.BackupDir = filepath.Join(t.TempDir(), "backups")

	backend, err := NewBackend(context.Background(), cfg, helpers.TestLogger())
	require.NoError(t, err)

	store, ok := backend.Store.(*redis_a.Store)
	require.True(t, ok)
	assert.Equal(t, "test:inventory:"+cfg.Store.CollectionID, store.Key())
	assert.NotNil(t, backend.Backups, "falls back to local backups")
	assert.NoError(t, backend.Close())
}

func TestNewBackend_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := helpers.LoadTestConfig()
	cfg.Store.Backend = config.BackendRedis
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()
	cfg.Redis.MaxRetries = 0
	mr.Close()

	_, err := NewBackend(context.Background(), cfg, helpers.TestLogger())
	assert.Error(t, err)
}

func TestNewBackend_Gist(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.Store.Backend = config.BackendGist
	cfg.Gist.APIURL = "https://api.github.com"
	cfg.Gist.FileName = "inventory.json"

	backend, err := NewBackend(context.Background(), cfg, helpers.TestLogger())
	require.NoError(t, err)
	assert.IsType(t, &storage.GistStore{}, backend.Store)
	assert.True(t, backend.Store.Remote())
}

func TestNewBackend_Unknown(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.Store.Backend = "tape"

	_, err := NewBackend(context.Background(), cfg, helpers.TestLogger())
	assert.Error(t, err)
}

func TestNewRepository_CacheSettings(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		remote    bool
		enabled   bool
		wantLoads int
	}{
		{name: "remote_cached", remote: true, enabled: true, wantLoads: 1},
		{name: "remote_cache_disabled", remote: true, enabled: false, wantLoads: 2},
		{name: "local_never_cached", remote: false, enabled: true, wantLoads: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := helpers.LoadTestConfig()
			cfg.Store.CacheEnabled = tt.enabled
			store := helpers.NewMemoryStore(tt.remote)

			repo := NewRepository(store, cfg, helpers.TestLogger())
			_, err := repo.GetAll(ctx, false)
			require.NoError(t, err)
			_, err = repo.GetAll(ctx, false)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLoads, store.Loads())
		})
	}
}

func TestNewCredentialProvider(t *testing.T) {
	cfg := helpers.LoadTestConfig()

	provider, err := NewCredentialProvider(context.Background(), cfg, helpers.TestLogger())
	require.NoError(t, err)
	creds, err := provider.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-token", creds.Token)
	assert.Equal(t, cfg.Store.CollectionID, creds.CollectionID)

	cfg.Credentials.Source = "keyring"
	_, err = NewCredentialProvider(context.Background(), cfg, helpers.TestLogger())
	assert.Error(t, err)
}

func TestDatabaseConfig(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.Database.Host = "db.internal"
	cfg.Database.Name = "inventory"

	dbCfg := DatabaseConfig(cfg)
	assert.Equal(t, "db.internal", dbCfg.Host)
	assert.Equal(t, "inventory", dbCfg.Database)
}

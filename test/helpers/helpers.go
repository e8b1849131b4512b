// test/helpers/helpers.go
package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockscan/internal/adapters/db"
	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	DB       *sql.DB
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB starts a PostgreSQL container and applies the embedded migrations
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_inventory",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_inventory",
		SSLMode:            "disable",
		MaxConnections:     5,
		MaxIdleConnections: 1,
		MaxConnLifetime:    time.Hour,
		ConnectTimeout:     time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	var sqlDB *sql.DB
	err = pool.Retry(func() error {
		var err error
		sqlDB, err = db.Open(context.Background(), dbConfig, TestLogger())
		return err
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")
	t.Cleanup(func() { sqlDB.Close() })

	err = db.RunMigrationsWithRetry(context.Background(), &db.MigrationConfig{
		DatabaseURL: dbConfig.URL(),
	}, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		DB:       sqlDB,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates an in-process Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SetupMockDB creates a mock database for unit testing
func SetupMockDB(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock DB")

	t.Cleanup(func() {
		db.Close()
	})

	return mock, db
}

// LoadTestConfig returns a test configuration using the file backend
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "stockscan-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Store: config.StoreConfig{
			Backend:      config.BackendFile,
			CollectionID: "test",
			CacheTTL:     30 * time.Second,
			CacheEnabled: true,
			BackupPrefix: "backups",
		},
		File: config.FileConfig{
			Path:      "inventory.json",
			BackupDir: "backups",
		},
		Redis: config.RedisConfig{
			Host:      "localhost",
			Port:      "6379",
			PoolSize:  10,
			KeyPrefix: "stockscan-test",
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "test",
			Password:       "test",
			Name:           "test_inventory",
			SSLMode:        "disable",
			MaxConnections: 5,
		},
		Credentials: config.CredentialsConfig{
			Source: "env",
			Token:  "test-token",
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			RequestIDHeader:   "X-Request-ID",
			MaxUploadSizeMB:   5,
		},
		Server: config.ServerConfig{
			Host:           "localhost",
			Port:           "8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			RequestTimeout: 15 * time.Second,
		},
	}
}

// CreateTestInventoryItem creates a test inventory item
func CreateTestInventoryItem(overrides ...func(*domain.InventoryItem)) *domain.InventoryItem {
	barcode := "5012345678900"
	now := time.Now().UTC()
	item := &domain.InventoryItem{
		ID:           "item-0001",
		Barcode:      &barcode,
		StockNumber:  "SN-0001",
		Supplier:     "Acme Wholesale",
		Description:  "Stainless steel water bottle 750ml",
		CostPrice:    decimal.RequireFromString("4.20"),
		SellingPrice: decimal.RequireFromString("9.99"),
		Quantity:     10,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for _, override := range overrides {
		override(item)
	}

	return item
}

// CreateTestInventoryItems creates count distinct items
func CreateTestInventoryItems(count int) []domain.InventoryItem {
	suppliers := []string{"Acme Wholesale", "Bolt & Co", "Northwind", "Globex"}

	items := make([]domain.InventoryItem, count)
	for i := 0; i < count; i++ {
		items[i] = *CreateTestInventoryItem(func(item *domain.InventoryItem) {
			barcode := fmt.Sprintf("50123456%05d", i+1)
			item.ID = fmt.Sprintf("item-%04d", i+1)
			item.Barcode = &barcode
			item.StockNumber = fmt.Sprintf("SN-%04d", i+1)
			item.Supplier = suppliers[i%len(suppliers)]
			item.Description = fmt.Sprintf("Test Item %d", i+1)
			item.Quantity = i % 12
		})
	}

	return items
}

// CreateTestDraft creates a valid draft
func CreateTestDraft(overrides ...func(*domain.ItemDraft)) domain.ItemDraft {
	draft := domain.ItemDraft{
		Barcode:      "5012345678900",
		StockNumber:  "SN-0001",
		Supplier:     "Acme Wholesale",
		Description:  "Stainless steel water bottle 750ml",
		CostPrice:    "4.20",
		SellingPrice: "9.99",
		Quantity:     "10",
	}
	for _, override := range overrides {
		override(&draft)
	}
	return draft
}

// CompareInventoryItems compares two inventory items for testing
func CompareInventoryItems(t *testing.T, expected, actual *domain.InventoryItem) {
	t.Helper()

	require.NotNil(t, actual)
	require.Equal(t, expected.ID, actual.ID)
	require.Equal(t, expected.BarcodeValue(), actual.BarcodeValue())
	require.Equal(t, expected.StockNumber, actual.StockNumber)
	require.Equal(t, expected.Supplier, actual.Supplier)
	require.Equal(t, expected.Description, actual.Description)
	require.Equal(t, expected.Quantity, actual.Quantity)
	require.True(t, expected.CostPrice.Equal(actual.CostPrice))
	require.True(t, expected.SellingPrice.Equal(actual.SellingPrice))
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// TruncateDocuments removes every stored collection from the test database
func TruncateDocuments(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	_, err := sqlDB.ExecContext(context.Background(), "TRUNCATE TABLE inventory_documents")
	require.NoError(t, err, "Failed to truncate inventory_documents")
}

// CreateTempFile creates a temporary file for testing
func CreateTempFile(t *testing.T, content []byte, extension string) string {
	t.Helper()

	file, err := os.CreateTemp("", fmt.Sprintf("test-*%s", extension))
	require.NoError(t, err, "Failed to create temp file")

	_, err = file.Write(content)
	require.NoError(t, err, "Failed to write to temp file")

	file.Close()

	t.Cleanup(func() {
		os.Remove(file.Name())
	})

	return file.Name()
}

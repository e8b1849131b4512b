// internal/bootstrap/store.go
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"github.com/ammerola/stockscan/internal/adapters/db"
	redis_a "github.com/ammerola/stockscan/internal/adapters/redis_adapter"
	"github.com/ammerola/stockscan/internal/adapters/storage"
	"github.com/ammerola/stockscan/internal/core/ports"
	"github.com/ammerola/stockscan/internal/core/services"
	"github.com/ammerola/stockscan/internal/pkg/config"
)

// Backend bundles the configured document store with its backup target and
// the connections it owns
type Backend struct {
	Store   ports.DocumentStore
	Backups ports.BackupWriter
	closers []func() error
}

// Close releases connections opened for the backend
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewBackend builds the document store selected by cfg.Store.Backend
func NewBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}

	logger.Info("initializing inventory store", slog.String("backend", cfg.Store.Backend))

	switch cfg.Store.Backend {
	case config.BackendFile:
		fs := storage.NewFileStore(afero.NewOsFs(), cfg.File.Path, cfg.File.BackupDir, logger)
		b.Store = fs
		b.Backups = fs

	case config.BackendRedis:
		client := NewRedisClient(cfg)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		b.Store = redis_a.NewStore(client, cfg.Redis.KeyPrefix, cfg.Store.CollectionID, logger)

	case config.BackendS3:
		s3Store, err := storage.NewS3Store(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			ObjectKey:       cfg.AWS.S3ObjectKey,
			BackupPrefix:    cfg.Store.BackupPrefix,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 store: %w", err)
		}
		b.Store = s3Store
		b.Backups = s3Store

	case config.BackendGist:
		creds, err := NewCredentialProvider(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		gistStore, err := storage.NewGistStore(storage.GistConfig{
			BaseURL:  cfg.Gist.APIURL,
			FileName: cfg.Gist.FileName,
			Timeout:  cfg.Gist.Timeout,
		}, creds, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gist store: %w", err)
		}
		b.Store = gistStore

	case config.BackendPostgres:
		sqlDB, err := OpenDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, sqlDB.Close)
		b.Store = db.NewDocumentStore(sqlDB, cfg.Store.CollectionID, logger)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	// Backends without their own object storage back up to the local directory
	if b.Backups == nil && cfg.File.BackupDir != "" {
		b.Backups = storage.NewFileStore(afero.NewOsFs(), cfg.File.Path, cfg.File.BackupDir, logger)
	}

	return b, nil
}

// NewRepository wraps store with the cache and write settings from cfg
func NewRepository(store ports.DocumentStore, cfg *config.Config, logger *slog.Logger) *services.Repository {
	var opts []services.Option
	switch {
	case !cfg.Store.CacheEnabled:
		opts = append(opts, services.WithReadCache(0))
	case store.Remote():
		opts = append(opts, services.WithReadCache(cfg.Store.CacheTTL))
	}
	if cfg.Store.SerializedWrites {
		opts = append(opts, services.WithSerializedWrites())
	}
	return services.NewRepository(store, logger, opts...)
}

// NewCredentialProvider returns the token source named by cfg.Credentials.Source
func NewCredentialProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.CredentialProvider, error) {
	switch cfg.Credentials.Source {
	case "", "env":
		return config.NewStaticCredentials(cfg.Credentials.Token, cfg.Store.CollectionID), nil
	case "secretsmanager":
		provider, err := config.NewSecretsManagerCredentials(ctx,
			cfg.AWS.Region, cfg.Credentials.SecretName, cfg.Store.CollectionID,
			cfg.Credentials.CacheTTL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize secrets manager credentials: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown credentials source %q", cfg.Credentials.Source)
	}
}

// NewRedisClient builds a go-redis client from cfg
func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
}

// OpenDatabase connects to postgres and applies migrations when enabled
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	if cfg.Database.RunMigrations {
		if err := db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
			DatabaseURL: cfg.GetDatabaseURL(),
		}, logger, 3); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	sqlDB, err := db.Open(ctx, DatabaseConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return sqlDB, nil
}

// DatabaseConfig maps application settings onto the db package config
func DatabaseConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}
}

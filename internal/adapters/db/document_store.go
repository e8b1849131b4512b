// internal/adapters/db/document_store.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

const documentsTable = "inventory_documents"

// DBTX is the subset of *sql.DB the document store needs
type DBTX interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	PingContext(ctx context.Context) error
}

// DocumentStore keeps each collection in one row with a version counter
type DocumentStore struct {
	db           DBTX
	collectionID string
	psql         squirrel.StatementBuilderType
	logger       *slog.Logger
}

// Statically assert that *DocumentStore implements the DocumentStore interface.
var _ ports.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a postgres-backed store for collectionID
func NewDocumentStore(db DBTX, collectionID string, logger *slog.Logger) *DocumentStore {
	return &DocumentStore{
		db:           db,
		collectionID: collectionID,
		psql:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger:       logger.With(slog.String("repository", "inventory_documents")),
	}
}

// Load reads the collection row. A missing row is an empty document.
func (s *DocumentStore) Load(ctx context.Context) (ports.Document, error) {
	query, args, err := s.psql.
		Select("payload", "version").
		From(documentsTable).
		Where(squirrel.Eq{"collection_id": s.collectionID}).
		ToSql()
	if err != nil {
		return ports.Document{}, fmt.Errorf("failed to build query: %w", err)
	}

	var payload []byte
	var version int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.Document{}, nil
		}
		return ports.Document{}, domain.NewStoreError("load", err)
	}

	return ports.Document{Data: payload, Version: strconv.FormatInt(version, 10)}, nil
}

// Save writes the collection row. With an expected version the update only
// applies when the stored version still matches.
func (s *DocumentStore) Save(ctx context.Context, data []byte, expectedVersion string) (string, error) {
	now := time.Now().UTC()

	var builder squirrel.Sqlizer
	if expectedVersion == "" {
		builder = s.psql.
			Insert(documentsTable).
			Columns("collection_id", "payload", "version", "updated_at").
			Values(s.collectionID, string(data), 1, now).
			Suffix("ON CONFLICT (collection_id) DO UPDATE SET payload = EXCLUDED.payload, " +
				"version = " + documentsTable + ".version + 1, updated_at = EXCLUDED.updated_at " +
				"RETURNING version")
	} else {
		expected, err := strconv.ParseInt(expectedVersion, 10, 64)
		if err != nil {
			return "", domain.NewStoreError("save", fmt.Errorf("%w: malformed version %q", domain.ErrVersionConflict, expectedVersion))
		}
		builder = s.psql.
			Update(documentsTable).
			Set("payload", string(data)).
			Set("version", squirrel.Expr("version + 1")).
			Set("updated_at", now).
			Where(squirrel.Eq{"collection_id": s.collectionID, "version": expected}).
			Suffix("RETURNING version")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build query: %w", err)
	}

	var version int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.NewStoreError("save", fmt.Errorf("%w: expected version %s", domain.ErrVersionConflict, expectedVersion))
		}
		s.logger.ErrorContext(ctx, "failed to save inventory document",
			slog.String("collection_id", s.collectionID),
			slog.String("error", err.Error()))
		return "", domain.NewStoreError("save", err)
	}

	s.logger.DebugContext(ctx, "inventory document saved",
		slog.String("collection_id", s.collectionID),
		slog.Int64("version", version))

	return strconv.FormatInt(version, 10), nil
}

// Ping verifies database connectivity
func (s *DocumentStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return domain.NewStoreError("ping", err)
	}
	return nil
}

// Remote reports true; reads cross the network
func (s *DocumentStore) Remote() bool { return true }

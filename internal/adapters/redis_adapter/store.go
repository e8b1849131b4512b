// internal/adapters/redis_adapter/store.go
package redis_a

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

const (
	fieldData    = "data"
	fieldVersion = "version"
)

// saveScript writes the document and bumps its version. It returns -1 when an
// expected version is given and does not match.
var saveScript = redis.NewScript(`
local expected = ARGV[2]
if expected ~= "" then
	local current = redis.call("HGET", KEYS[1], "version")
	if current ~= expected then
		return -1
	end
end
local version = redis.call("HINCRBY", KEYS[1], "version", 1)
redis.call("HSET", KEYS[1], "data", ARGV[1])
return version
`)

// Store keeps the collection in one redis hash with a version counter
type Store struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// Statically assert that *Store implements the DocumentStore interface.
var _ ports.DocumentStore = (*Store)(nil)

// NewStore creates a store for collectionID under prefix
func NewStore(client *redis.Client, prefix, collectionID string, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		key:    fmt.Sprintf("%s:inventory:%s", prefix, collectionID),
		logger: logger.With(slog.String("component", "redis_store")),
	}
}

// Key returns the hash key holding the collection
func (s *Store) Key() string { return s.key }

// Load reads the document and its version
func (s *Store) Load(ctx context.Context) (ports.Document, error) {
	values, err := s.client.HMGet(ctx, s.key, fieldData, fieldVersion).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.Document{}, nil
		}
		s.logger.ErrorContext(ctx, "failed to read inventory hash",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		return ports.Document{}, domain.NewStoreError("load", err)
	}

	var doc ports.Document
	if data, ok := values[0].(string); ok {
		doc.Data = []byte(data)
	}
	if version, ok := values[1].(string); ok {
		doc.Version = version
	}
	return doc, nil
}

// Save writes data, conditional on expectedVersion when set
func (s *Store) Save(ctx context.Context, data []byte, expectedVersion string) (string, error) {
	version, err := saveScript.Run(ctx, s.client, []string{s.key}, data, expectedVersion).Int64()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to write inventory hash",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		return "", domain.NewStoreError("save", err)
	}
	if version < 0 {
		return "", domain.NewStoreError("save", fmt.Errorf("%w: expected version %s", domain.ErrVersionConflict, expectedVersion))
	}

	s.logger.DebugContext(ctx, "inventory hash written",
		slog.String("key", s.key),
		slog.Int64("version", version))

	return strconv.FormatInt(version, 10), nil
}

// Ping checks connectivity
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return domain.NewStoreError("ping", err)
	}
	return nil
}

// Remote reports true; reads cross the network
func (s *Store) Remote() bool { return true }

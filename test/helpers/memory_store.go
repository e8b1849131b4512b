// test/helpers/memory_store.go
package helpers

import (
	"context"
	"strconv"
	"sync"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// MemoryStore is an in-memory DocumentStore with version checks and failure injection
type MemoryStore struct {
	mu      sync.Mutex
	data    []byte
	version int
	remote  bool

	// LoadErr and SaveErr, when set, are returned by Load and Save
	LoadErr error
	SaveErr error

	loads int
	saves int
}

var _ ports.DocumentStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store. remote controls what Remote reports.
func NewMemoryStore(remote bool) *MemoryStore {
	return &MemoryStore{remote: remote}
}

// Seed replaces the stored bytes without counting as a save
func (m *MemoryStore) Seed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.version++
}

// SeedItems stores items as an encoded collection
func (m *MemoryStore) SeedItems(items []domain.InventoryItem) {
	data, err := domain.EncodeCollection(items)
	if err != nil {
		panic(err)
	}
	m.Seed(data)
}

// Data returns a copy of the stored bytes
func (m *MemoryStore) Data() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Items decodes the stored collection
func (m *MemoryStore) Items() []domain.InventoryItem {
	items, err := domain.DecodeCollection(m.Data())
	if err != nil {
		panic(err)
	}
	return items
}

// Loads reports how many times Load was called
func (m *MemoryStore) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

// Saves reports how many times Save succeeded
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// SetLoadErr sets LoadErr under the store lock
func (m *MemoryStore) SetLoadErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadErr = err
}

func (m *MemoryStore) Load(ctx context.Context) (ports.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.LoadErr != nil {
		return ports.Document{}, m.LoadErr
	}
	if m.data == nil {
		return ports.Document{}, nil
	}
	return ports.Document{
		Data:    append([]byte(nil), m.data...),
		Version: strconv.Itoa(m.version),
	}, nil
}

func (m *MemoryStore) Save(ctx context.Context, data []byte, expectedVersion string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	if expectedVersion != "" && expectedVersion != strconv.Itoa(m.version) {
		return "", domain.NewStoreError("save", domain.ErrVersionConflict)
	}
	m.data = append([]byte(nil), data...)
	m.version++
	m.saves++
	return strconv.Itoa(m.version), nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoadErr
}

func (m *MemoryStore) Remote() bool { return m.remote }

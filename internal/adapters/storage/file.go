// internal/adapters/storage/file.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// FileStore keeps the collection in a single local file
type FileStore struct {
	fs        afero.Fs
	path      string
	backupDir string
	mu        sync.Mutex
	logger    *slog.Logger
}

var (
	_ ports.DocumentStore = (*FileStore)(nil)
	_ ports.BackupWriter  = (*FileStore)(nil)
)

// NewFileStore creates a store rooted in fs
func NewFileStore(fs afero.Fs, path, backupDir string, logger *slog.Logger) *FileStore {
	return &FileStore{
		fs:        fs,
		path:      path,
		backupDir: backupDir,
		logger:    logger.With(slog.String("storage", "file")),
	}
}

// Load reads the slot. A missing file is an empty document.
func (f *FileStore) Load(ctx context.Context) (ports.Document, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ports.Document{}, nil
		}
		return ports.Document{}, domain.NewStoreError("load", err)
	}
	return ports.Document{Data: data}, nil
}

// Save replaces the slot atomically. Versions are not tracked locally.
func (f *FileStore) Save(ctx context.Context, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return "", domain.NewStoreError("save", fmt.Errorf("failed to create directory: %w", err))
	}

	tmp := fmt.Sprintf("%s.%s.tmp", f.path, uuid.NewString())
	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		return "", domain.NewStoreError("save", fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		_ = f.fs.Remove(tmp)
		return "", domain.NewStoreError("save", fmt.Errorf("failed to replace inventory file: %w", err))
	}

	f.logger.DebugContext(ctx, "inventory file written",
		slog.String("path", f.path),
		slog.Int("size", len(data)))

	return "", nil
}

// Ping checks the slot directory is usable
func (f *FileStore) Ping(ctx context.Context) error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return domain.NewStoreError("ping", err)
	}
	return nil
}

// Remote reports false; the local slot is not cached
func (f *FileStore) Remote() bool { return false }

// PutBackup writes a snapshot into the backup directory
func (f *FileStore) PutBackup(ctx context.Context, name string, body io.Reader) (string, error) {
	if err := f.fs.MkdirAll(f.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	target := filepath.Join(f.backupDir, filepath.Base(name))
	file, err := f.fs.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	f.logger.InfoContext(ctx, "backup written", slog.String("path", target))
	return target, nil
}

// internal/core/ports/document_store.go
package ports

import (
	"context"
	"io"
)

// Document is the raw persisted collection plus an opaque version token.
// Version is empty when the backend does not track versions or the document does not exist.
type Document struct {
	Data    []byte
	Version string
}

// DocumentStore persists the whole collection as one document
type DocumentStore interface {
	// Load returns the current document. A missing document yields empty Data.
	Load(ctx context.Context) (Document, error)
	// Save writes data. A non-empty expectedVersion makes the write conditional
	// on stores that support it. It returns the new version.
	Save(ctx context.Context, data []byte, expectedVersion string) (string, error)
	Ping(ctx context.Context) error
	// Remote reports whether reads cross the network and should be cached.
	Remote() bool
}

// BackupWriter stores point-in-time snapshots of the collection
type BackupWriter interface {
	PutBackup(ctx context.Context, name string, body io.Reader) (string, error)
}

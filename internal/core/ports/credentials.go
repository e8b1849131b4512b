// internal/core/ports/credentials.go
package ports

import "context"

// Credentials identify and authorize access to a remote collection
type Credentials struct {
	Token        string
	CollectionID string
}

// CredentialProvider supplies credentials for remote stores
type CredentialProvider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// internal/adapters/storage/gist.go
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// GistConfig holds the remote document API settings
type GistConfig struct {
	BaseURL  string
	FileName string
	Timeout  time.Duration
}

// GistStore keeps the collection as one file of a remote gist document,
// authorized with a bearer token
type GistStore struct {
	httpClient *http.Client
	baseURL    *url.URL
	fileName   string
	creds      ports.CredentialProvider
	logger     *slog.Logger
}

var _ ports.DocumentStore = (*GistStore)(nil)

// NewGistStore creates a gist-backed store
func NewGistStore(cfg GistConfig, creds ports.CredentialProvider, logger *slog.Logger) (*GistStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid gist API url: %w", err)
	}

	return &GistStore{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		fileName:   cfg.FileName,
		creds:      creds,
		logger:     logger.With(slog.String("storage", "gist")),
	}, nil
}

// Load fetches the gist and returns the inventory file content
func (g *GistStore) Load(ctx context.Context) (ports.Document, error) {
	client, gistID, err := g.client(ctx)
	if err != nil {
		return ports.Document{}, domain.NewStoreError("load", err)
	}

	gist, _, err := client.Gists.Get(ctx, gistID)
	if err != nil {
		return ports.Document{}, classifyGistError("load", err)
	}

	file, ok := gist.GetFiles()[github.GistFilename(g.fileName)]
	if !ok {
		return ports.Document{}, nil
	}

	content := file.GetContent()
	// The API cuts large files short; the full text is at the raw url.
	if file.GetRawURL() != "" && file.GetSize() > len(content) {
		raw, err := g.fetchRaw(ctx, client, file.GetRawURL())
		if err != nil {
			return ports.Document{}, err
		}
		content = raw
	}

	return ports.Document{Data: []byte(content)}, nil
}

// Save replaces the inventory file. The API offers no conditional update, so
// expectedVersion is ignored.
func (g *GistStore) Save(ctx context.Context, data []byte, _ string) (string, error) {
	client, gistID, err := g.client(ctx)
	if err != nil {
		return "", domain.NewStoreError("save", err)
	}

	_, _, err = client.Gists.Edit(ctx, gistID, &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			github.GistFilename(g.fileName): {Content: github.String(string(data))},
		},
	})
	if err != nil {
		return "", classifyGistError("save", err)
	}

	g.logger.DebugContext(ctx, "gist updated", slog.Int("size", len(data)))
	return "", nil
}

// Ping checks the gist is reachable with the current credentials
func (g *GistStore) Ping(ctx context.Context) error {
	client, gistID, err := g.client(ctx)
	if err != nil {
		return domain.NewStoreError("ping", err)
	}
	if _, _, err := client.Gists.Get(ctx, gistID); err != nil {
		return classifyGistError("ping", err)
	}
	return nil
}

// Remote reports true; reads cross the network
func (g *GistStore) Remote() bool { return true }

// client builds an API client for the current token. Credentials are read on
// every call so rotated secrets are picked up.
func (g *GistStore) client(ctx context.Context) (*github.Client, string, error) {
	creds, err := g.creds.Credentials(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if creds.Token == "" {
		return nil, "", fmt.Errorf("%w: no token configured", domain.ErrUnauthorized)
	}

	client := github.NewClient(g.httpClient).WithAuthToken(creds.Token)
	client.BaseURL = g.baseURL
	return client, creds.CollectionID, nil
}

func (g *GistStore) fetchRaw(ctx context.Context, client *github.Client, rawURL string) (string, error) {
	req, err := client.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", domain.NewStoreError("load", fmt.Errorf("failed to build raw request: %w", err))
	}

	var buf bytes.Buffer
	if _, err := client.Do(ctx, req, &buf); err != nil {
		return "", classifyGistError("load", err)
	}
	return buf.String(), nil
}

func classifyGistError(op string, err error) error {
	var apiErr *github.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		switch apiErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.NewStoreError(op, fmt.Errorf("%w: status %d", domain.ErrUnauthorized, apiErr.Response.StatusCode))
		}
	}
	return domain.NewStoreError(op, err)
}

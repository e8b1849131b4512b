package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
	"github.com/ammerola/stockscan/test/helpers"
	"github.com/ammerola/stockscan/test/mocks"
)

func newTestGistStore(t *testing.T, handler http.HandlerFunc) *GistStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ctrl := gomock.NewController(t)
	creds := mocks.NewMockCredentialProvider(ctrl)
	creds.EXPECT().Credentials(gomock.Any()).
		Return(ports.Credentials{Token: "secret", CollectionID: "abc123"}, nil).
		AnyTimes()

	store, err := NewGistStore(GistConfig{BaseURL: server.URL, FileName: "inventory.json"}, creds, helpers.TestLogger())
	require.NoError(t, err)
	return store
}

func TestGistStore_Load(t *testing.T) {
	store := newTestGistStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/gists/abc123", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"files": map[string]any{
				"inventory.json": map[string]any{"content": `[{"id":"a"}]`},
			},
		})
	})

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(doc.Data))
	assert.True(t, store.Remote())
}

func TestGistStore_LoadMissingFile(t *testing.T) {
	store := newTestGistStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"files":{}}`))
	})

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Data)
}

func TestGistStore_LoadTruncatedFollowsRawURL(t *testing.T) {
	var rawURL string
	store := newTestGistStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/raw/inventory.json" {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[{"id":"big"}]`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"files": map[string]any{
				"inventory.json": map[string]any{
					"content":   "[",
					"size":      14,
					"truncated": true,
					"raw_url":   rawURL,
				},
			},
		})
	})
	rawURL = store.baseURL.String() + "raw/inventory.json"

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"big"}]`, string(doc.Data))
}

func TestGistStore_Save(t *testing.T) {
	store := newTestGistStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/gists/abc123", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var doc struct {
			Files map[string]struct {
				Content string `json:"content"`
			} `json:"files"`
		}
		require.NoError(t, json.Unmarshal(body, &doc))
		require.Contains(t, doc.Files, "inventory.json")
		assert.Equal(t, "[]", doc.Files["inventory.json"].Content)
		_, _ = w.Write([]byte(`{"id":"abc123"}`))
	})

	_, err := store.Save(context.Background(), []byte("[]"), "")
	require.NoError(t, err)
}

func TestGistStore_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: domain.ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: domain.ErrUnauthorized},
		{name: "server_error", status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestGistStore(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := store.Load(context.Background())
			require.Error(t, err)
			assert.True(t, domain.IsStoreError(err))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Error(t, store.Ping(context.Background()))
		})
	}
}

func TestGistStore_MissingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	creds := mocks.NewMockCredentialProvider(ctrl)
	creds.EXPECT().Credentials(gomock.Any()).Return(ports.Credentials{}, nil)
	store, err := NewGistStore(GistConfig{BaseURL: "http://unused", FileName: "inventory.json"}, creds, helpers.TestLogger())
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	creds.EXPECT().Credentials(gomock.Any()).Return(ports.Credentials{}, errors.New("secret not found"))
	_, err = store.Save(context.Background(), []byte("[]"), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

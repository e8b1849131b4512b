// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/ammerola/stockscan/internal/core/ports"
)

// StaticCredentials hands out a fixed token, typically read from the environment
type StaticCredentials struct {
	creds ports.Credentials
}

var _ ports.CredentialProvider = (*StaticCredentials)(nil)

// NewStaticCredentials creates a provider for a fixed token and collection
func NewStaticCredentials(token, collectionID string) *StaticCredentials {
	return &StaticCredentials{creds: ports.Credentials{Token: token, CollectionID: collectionID}}
}

// Credentials returns the configured credentials
func (s *StaticCredentials) Credentials(ctx context.Context) (ports.Credentials, error) {
	return s.creds, nil
}

// SecretsManagerAPI is the subset of the Secrets Manager client in use
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// storeSecret is the JSON layout of the secret
type storeSecret struct {
	Token        string `json:"token"`
	CollectionID string `json:"collection_id"`
}

// SecretsManagerCredentials reads the store token from AWS Secrets Manager and
// caches it for ttl
type SecretsManagerCredentials struct {
	client       SecretsManagerAPI
	secretName   string
	collectionID string

	cacheMu   sync.RWMutex
	cached    *ports.Credentials
	lastFetch time.Time
	ttl       time.Duration

	logger *slog.Logger
}

var _ ports.CredentialProvider = (*SecretsManagerCredentials)(nil)

// NewSecretsManagerCredentials creates a provider backed by the default AWS config chain
func NewSecretsManagerCredentials(ctx context.Context, region, secretName, collectionID string, ttl time.Duration, logger *slog.Logger) (*SecretsManagerCredentials, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSecretsManagerCredentialsWithClient(secretsmanager.NewFromConfig(cfg), secretName, collectionID, ttl, logger), nil
}

// NewSecretsManagerCredentialsWithClient creates a provider over an existing client
func NewSecretsManagerCredentialsWithClient(client SecretsManagerAPI, secretName, collectionID string, ttl time.Duration, logger *slog.Logger) *SecretsManagerCredentials {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SecretsManagerCredentials{
		client:       client,
		secretName:   secretName,
		collectionID: collectionID,
		ttl:          ttl,
		logger:       logger.With(slog.String("component", "secrets_manager")),
	}
}

// Credentials returns the cached credentials or fetches them
func (sm *SecretsManagerCredentials) Credentials(ctx context.Context) (ports.Credentials, error) {
	sm.cacheMu.RLock()
	if sm.cached != nil && time.Since(sm.lastFetch) < sm.ttl {
		creds := *sm.cached
		sm.cacheMu.RUnlock()
		return creds, nil
	}
	sm.cacheMu.RUnlock()

	sm.logger.InfoContext(ctx, "fetching store credentials from AWS Secrets Manager",
		slog.String("secret_name", sm.secretName))

	result, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return ports.Credentials{}, fmt.Errorf("failed to get secret value: %w", err)
	}
	if result.SecretString == nil {
		return ports.Credentials{}, fmt.Errorf("secret %s has no string value", sm.secretName)
	}

	var secret storeSecret
	if err := json.Unmarshal([]byte(*result.SecretString), &secret); err != nil {
		return ports.Credentials{}, fmt.Errorf("failed to parse secret JSON: %w", err)
	}
	if secret.Token == "" {
		return ports.Credentials{}, fmt.Errorf("%w: token in secret %s", ErrMissingRequiredConfig, sm.secretName)
	}

	creds := ports.Credentials{Token: secret.Token, CollectionID: secret.CollectionID}
	if creds.CollectionID == "" {
		creds.CollectionID = sm.collectionID
	}

	sm.cacheMu.Lock()
	sm.cached = &creds
	sm.lastFetch = time.Now()
	sm.cacheMu.Unlock()

	return creds, nil
}

// Refresh drops the cached credentials
func (sm *SecretsManagerCredentials) Refresh() {
	sm.cacheMu.Lock()
	sm.cached = nil
	sm.lastFetch = time.Time{}
	sm.cacheMu.Unlock()
}

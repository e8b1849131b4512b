// internal/adapters/storage/s3.go
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// S3API is the subset of the S3 client the document store uses
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Uploader streams large objects; *manager.Uploader satisfies it
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Config holds S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	ObjectKey       string
	BackupPrefix    string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // For MinIO/LocalStack
	UsePathStyle    bool   // For MinIO/LocalStack
}

// S3Store keeps the collection in a single object. Writes are conditional on
// the ETag the collection was read at.
type S3Store struct {
	api          S3API
	uploader     Uploader
	bucket       string
	key          string
	backupPrefix string
	logger       *slog.Logger
}

var (
	_ ports.DocumentStore = (*S3Store)(nil)
	_ ports.BackupWriter  = (*S3Store)(nil)
)

// NewS3Store creates a store from configuration
func NewS3Store(ctx context.Context, cfg *S3Config, logger *slog.Logger) (*S3Store, error) {
	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	store := NewS3StoreWithClient(client, manager.NewUploader(client), cfg.Bucket, cfg.ObjectKey, cfg.BackupPrefix, logger)

	logger.Info("S3 store initialized",
		slog.String("bucket", cfg.Bucket),
		slog.String("key", cfg.ObjectKey),
		slog.String("region", cfg.Region))

	return store, nil
}

// NewS3StoreWithClient creates a store over existing clients
func NewS3StoreWithClient(api S3API, uploader Uploader, bucket, key, backupPrefix string, logger *slog.Logger) *S3Store {
	return &S3Store{
		api:          api,
		uploader:     uploader,
		bucket:       bucket,
		key:          key,
		backupPrefix: backupPrefix,
		logger:       logger.With(slog.String("storage", "s3")),
	}
}

// buildAWSConfig builds AWS configuration
func buildAWSConfig(ctx context.Context, cfg *S3Config) (aws.Config, error) {
	// Use custom credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		return config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretAccessKey,
					"",
				),
			),
		)
	}

	// Otherwise use default credential chain
	return config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
}

// Load reads the collection object. A missing object is an empty document.
func (s *S3Store) Load(ctx context.Context) (ports.Document, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			s.logger.DebugContext(ctx, "inventory object not found, starting empty",
				slog.String("key", s.key))
			return ports.Document{}, nil
		}
		return ports.Document{}, classifyS3Error("load", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return ports.Document{}, domain.NewStoreError("load", fmt.Errorf("failed to read object body: %w", err))
	}

	return ports.Document{Data: data, Version: aws.ToString(out.ETag)}, nil
}

// Save writes the collection object, conditional on expectedVersion when set
func (s *S3Store) Save(ctx context.Context, data []byte, expectedVersion string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"written-at": time.Now().UTC().Format(time.RFC3339),
			"write-id":   uuid.NewString(),
		},
	}
	if expectedVersion != "" {
		input.IfMatch = aws.String(expectedVersion)
	}

	out, err := s.api.PutObject(ctx, input)
	if err != nil {
		return "", classifyS3Error("save", err)
	}

	s.logger.DebugContext(ctx, "inventory object written",
		slog.String("key", s.key),
		slog.Int("size", len(data)))

	return aws.ToString(out.ETag), nil
}

// Ping verifies the bucket is reachable
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return classifyS3Error("ping", err)
	}
	return nil
}

// Remote reports true; reads cross the network
func (s *S3Store) Remote() bool { return true }

// PutBackup uploads a snapshot under the backup prefix
func (s *S3Store) PutBackup(ctx context.Context, name string, body io.Reader) (string, error) {
	key := path.Join(s.backupPrefix, name)
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	s.logger.InfoContext(ctx, "backup uploaded",
		slog.String("key", key),
		slog.String("location", result.Location))

	return key, nil
}

func isNotFound(err error) bool {
	var coded interface{ ErrorCode() string }
	if errors.As(err, &coded) {
		switch coded.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return statusCode(err) == http.StatusNotFound
}

func statusCode(err error) int {
	var withStatus interface{ HTTPStatusCode() int }
	if errors.As(err, &withStatus) {
		return withStatus.HTTPStatusCode()
	}
	return 0
}

func classifyS3Error(op string, err error) error {
	switch statusCode(err) {
	case http.StatusPreconditionFailed, http.StatusConflict:
		return domain.NewStoreError(op, fmt.Errorf("%w: %v", domain.ErrVersionConflict, err))
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewStoreError(op, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err))
	}
	return domain.NewStoreError(op, err)
}

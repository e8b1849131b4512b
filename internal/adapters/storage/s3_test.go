package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/test/helpers"
	"github.com/ammerola/stockscan/test/mocks"
)

func responseError(status int) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
		Err:      errors.New(http.StatusText(status)),
	}
}

func newTestS3Store(t *testing.T) (*S3Store, *mocks.MockS3API, *mocks.MockUploader) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockS3API(ctrl)
	uploader := mocks.NewMockUploader(ctrl)
	store := NewS3StoreWithClient(api, uploader, "inventory-bucket", "shop/inventory.json", "backups", helpers.TestLogger())
	return store, api, uploader
}

func TestS3Store_Load(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*mocks.MockS3API)
		wantData    string
		wantVersion string
		wantErr     error
	}{
		{
			name: "existing_object",
			setupMock: func(m *mocks.MockS3API) {
				m.EXPECT().GetObject(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
						assert.Equal(t, "inventory-bucket", aws.ToString(in.Bucket))
						assert.Equal(t, "shop/inventory.json", aws.ToString(in.Key))
						return &s3.GetObjectOutput{
							Body: io.NopCloser(strings.NewReader(`[{"id":"a"}]`)),
							ETag: aws.String(`"abc"`),
						}, nil
					})
			},
			wantData:    `[{"id":"a"}]`,
			wantVersion: `"abc"`,
		},
		{
			name: "missing_key_is_empty",
			setupMock: func(m *mocks.MockS3API) {
				m.EXPECT().GetObject(gomock.Any(), gomock.Any()).Return(nil, &types.NoSuchKey{})
			},
		},
		{
			name: "forbidden_is_unauthorized",
			setupMock: func(m *mocks.MockS3API) {
				m.EXPECT().GetObject(gomock.Any(), gomock.Any()).Return(nil, responseError(http.StatusForbidden))
			},
			wantErr: domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, api, _ := newTestS3Store(t)
			tt.setupMock(api)

			doc, err := store.Load(context.Background())
			if tt.wantErr != nil {
				assert.True(t, domain.IsStoreError(err))
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, string(doc.Data))
			assert.Equal(t, tt.wantVersion, doc.Version)
		})
	}
}

func TestS3Store_Save(t *testing.T) {
	t.Run("conditional_on_etag", func(t *testing.T) {
		store, api, _ := newTestS3Store(t)
		api.EXPECT().PutObject(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				assert.Equal(t, `"abc"`, aws.ToString(in.IfMatch))
				assert.Equal(t, "application/json", aws.ToString(in.ContentType))
				body, err := io.ReadAll(in.Body)
				require.NoError(t, err)
				assert.Equal(t, "[]", string(body))
				return &s3.PutObjectOutput{ETag: aws.String(`"def"`)}, nil
			})

		version, err := store.Save(context.Background(), []byte("[]"), `"abc"`)
		require.NoError(t, err)
		assert.Equal(t, `"def"`, version)
	})

	t.Run("first_write_is_unconditional", func(t *testing.T) {
		store, api, _ := newTestS3Store(t)
		api.EXPECT().PutObject(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				assert.Nil(t, in.IfMatch)
				return &s3.PutObjectOutput{ETag: aws.String(`"1"`)}, nil
			})

		_, err := store.Save(context.Background(), []byte("[]"), "")
		require.NoError(t, err)
	})

	t.Run("precondition_failed_is_conflict", func(t *testing.T) {
		store, api, _ := newTestS3Store(t)
		api.EXPECT().PutObject(gomock.Any(), gomock.Any()).Return(nil, responseError(http.StatusPreconditionFailed))

		_, err := store.Save(context.Background(), []byte("[]"), `"stale"`)
		assert.True(t, domain.IsStoreError(err))
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})
}

func TestS3Store_Ping(t *testing.T) {
	store, api, _ := newTestS3Store(t)
	api.EXPECT().HeadBucket(gomock.Any(), gomock.Any()).Return(&s3.HeadBucketOutput{}, nil)
	require.NoError(t, store.Ping(context.Background()))

	api.EXPECT().HeadBucket(gomock.Any(), gomock.Any()).Return(nil, errors.New("dial tcp: timeout"))
	assert.True(t, domain.IsStoreError(store.Ping(context.Background())))

	assert.True(t, store.Remote())
}

func TestS3Store_PutBackup(t *testing.T) {
	store, _, uploader := newTestS3Store(t)
	uploader.EXPECT().Upload(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
			assert.Equal(t, "backups/inventory-20260401T090000Z.json", aws.ToString(in.Key))
			return &manager.UploadOutput{Location: "s3://inventory-bucket/" + aws.ToString(in.Key)}, nil
		})

	key, err := store.PutBackup(context.Background(), "inventory-20260401T090000Z.json", bytes.NewReader([]byte("[]")))
	require.NoError(t, err)
	assert.Equal(t, "backups/inventory-20260401T090000Z.json", key)
}

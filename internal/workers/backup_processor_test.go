package workers_test

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockscan/internal/workers"
	"github.com/ammerola/stockscan/test/helpers"
	"github.com/ammerola/stockscan/test/mocks"
)

func TestBackupProcessor_WritesExport(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockInventoryRepository(ctrl)
	backups := mocks.NewMockBackupWriter(ctrl)

	repo.EXPECT().ExportAll(gomock.Any()).Return([]byte(`[{"id":"a"}]`), nil)
	backups.EXPECT().PutBackup(gomock.Any(), "nightly.json", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body io.Reader) (string, error) {
			data, err := io.ReadAll(body)
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"a"}]`, string(data))
			return "backups/nightly.json", nil
		})

	task, err := workers.NewBackupTask("nightly.json")
	require.NoError(t, err)

	processor := workers.NewBackupProcessor(repo, backups, helpers.TestLogger())
	require.NoError(t, processor.ProcessBackup(context.Background(), task))
}

func TestBackupProcessor_DefaultName(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockInventoryRepository(ctrl)
	backups := mocks.NewMockBackupWriter(ctrl)

	repo.EXPECT().ExportAll(gomock.Any()).Return([]byte(`[]`), nil)
	backups.EXPECT().PutBackup(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, name string, _ io.Reader) (string, error) {
			assert.Regexp(t, regexp.MustCompile(`^inventory-\d{8}T\d{6}Z\.json$`), name)
			return name, nil
		})

	processor := workers.NewBackupProcessor(repo, backups, helpers.TestLogger())
	require.NoError(t, processor.ProcessBackup(context.Background(), asynq.NewTask(workers.TypeBackup, nil)))
}

func TestBackupProcessor_Failures(t *testing.T) {
	t.Run("no_destination", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockInventoryRepository(ctrl)

		processor := workers.NewBackupProcessor(repo, nil, helpers.TestLogger())
		err := processor.ProcessBackup(context.Background(), asynq.NewTask(workers.TypeBackup, nil))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("export_failure_is_retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockInventoryRepository(ctrl)
		backups := mocks.NewMockBackupWriter(ctrl)
		repo.EXPECT().ExportAll(gomock.Any()).Return(nil, errors.New("offline"))

		processor := workers.NewBackupProcessor(repo, backups, helpers.TestLogger())
		err := processor.ProcessBackup(context.Background(), asynq.NewTask(workers.TypeBackup, nil))
		require.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("upload_failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockInventoryRepository(ctrl)
		backups := mocks.NewMockBackupWriter(ctrl)
		repo.EXPECT().ExportAll(gomock.Any()).Return([]byte(`[]`), nil)
		backups.EXPECT().PutBackup(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("denied"))

		processor := workers.NewBackupProcessor(repo, backups, helpers.TestLogger())
		assert.Error(t, processor.ProcessBackup(context.Background(), asynq.NewTask(workers.TypeBackup, nil)))
	})
}

func TestBackupName(t *testing.T) {
	ts := time.Date(2026, 4, 1, 9, 30, 5, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "inventory-20260401T073005Z.json", workers.BackupName(ts))
}

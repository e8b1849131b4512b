// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeSpreadsheetImport = "inventory:import_spreadsheet"
	TypeBackup            = "inventory:backup"
)

// SpreadsheetImportPayload carries an uploaded workbook to the worker
type SpreadsheetImportPayload struct {
	JobID    string `json:"job_id"`
	FileName string `json:"file_name"`
	Data     []byte `json:"data"`
}

// SpreadsheetImportResult is written as the task result
type SpreadsheetImportResult struct {
	RowsRead       int      `json:"rows_read"`
	ItemsCreated   int      `json:"items_created"`
	RowsSkipped    int      `json:"rows_skipped"`
	Errors         []string `json:"errors,omitempty"`
	ProcessingTime string   `json:"processing_time"`
}

// BackupPayload names the snapshot to write. An empty Name uses a timestamped default.
type BackupPayload struct {
	Name string `json:"name,omitempty"`
}

// NewSpreadsheetImportTask builds an import task. Imports are not retried:
// rows added before a failure would be added twice.
func NewSpreadsheetImportTask(payload SpreadsheetImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import payload: %w", err)
	}
	return asynq.NewTask(TypeSpreadsheetImport, data,
		asynq.MaxRetry(0),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
	), nil
}

// NewBackupTask builds a snapshot backup task
func NewBackupTask(name string) (*asynq.Task, error) {
	data, err := json.Marshal(BackupPayload{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup payload: %w", err)
	}
	return asynq.NewTask(TypeBackup, data, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute)), nil
}

// BackupName returns the default snapshot name for t
func BackupName(t time.Time) string {
	return fmt.Sprintf("inventory-%s.json", t.UTC().Format("20060102T150405Z"))
}

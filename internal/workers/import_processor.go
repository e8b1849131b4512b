// internal/workers/import_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockscan/internal/adapters/spreadsheet"
	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// maxReportedErrors caps the row errors kept in a task result
const maxReportedErrors = 50

// ImportProcessor adds spreadsheet rows to the inventory
type ImportProcessor struct {
	repo   ports.InventoryRepository
	logger *slog.Logger
}

// NewImportProcessor creates a new import processor
func NewImportProcessor(repo ports.InventoryRepository, logger *slog.Logger) *ImportProcessor {
	return &ImportProcessor{
		repo:   repo,
		logger: logger.With(slog.String("processor", "spreadsheet_import")),
	}
}

// ProcessSpreadsheet runs an import task and writes its result
func (p *ImportProcessor) ProcessSpreadsheet(ctx context.Context, t *asynq.Task) error {
	var payload SpreadsheetImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing spreadsheet",
		slog.String("job_id", payload.JobID),
		slog.String("file_name", payload.FileName),
		slog.Int("size", len(payload.Data)))

	result, err := p.Import(ctx, payload.Data)
	if err != nil {
		p.logger.ErrorContext(ctx, "spreadsheet import aborted",
			slog.String("job_id", payload.JobID),
			slog.Int("items_created", result.ItemsCreated),
			slog.String("error", err.Error()))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	p.writeResult(ctx, t, result)

	p.logger.InfoContext(ctx, "spreadsheet import completed",
		slog.String("job_id", payload.JobID),
		slog.Int("rows_read", result.RowsRead),
		slog.Int("items_created", result.ItemsCreated),
		slog.Int("rows_skipped", result.RowsSkipped))

	return nil
}

// Import adds every valid row of a workbook. Invalid rows are counted and
// skipped; a store failure stops the import and reports what was created so far.
func (p *ImportProcessor) Import(ctx context.Context, data []byte) (SpreadsheetImportResult, error) {
	start := time.Now()

	drafts, err := spreadsheet.Decode(data)
	if err != nil {
		return SpreadsheetImportResult{}, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	result := SpreadsheetImportResult{RowsRead: len(drafts)}
	for i, draft := range drafts {
		_, err := p.repo.Add(ctx, draft)
		switch {
		case err == nil:
			result.ItemsCreated++
		case domain.IsValidationError(err):
			result.RowsSkipped++
			if len(result.Errors) < maxReportedErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("row %s: %v", spreadsheet.RowLabel(i), err))
			}
		default:
			result.ProcessingTime = time.Since(start).String()
			return result, fmt.Errorf("failed to add row %s: %w", spreadsheet.RowLabel(i), err)
		}
	}
	result.ProcessingTime = time.Since(start).String()

	return result, nil
}

func (p *ImportProcessor) writeResult(ctx context.Context, t *asynq.Task, result SpreadsheetImportResult) {
	w := t.ResultWriter()
	if w == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		p.logger.WarnContext(ctx, "failed to write task result", slog.String("error", err.Error()))
	}
}

// internal/workers/backup_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockscan/internal/core/ports"
)

// BackupProcessor writes point-in-time snapshots of the collection
type BackupProcessor struct {
	repo    ports.InventoryRepository
	backups ports.BackupWriter
	now     func() time.Time
	logger  *slog.Logger
}

// NewBackupProcessor creates a new backup processor
func NewBackupProcessor(repo ports.InventoryRepository, backups ports.BackupWriter, logger *slog.Logger) *BackupProcessor {
	return &BackupProcessor{
		repo:    repo,
		backups: backups,
		now:     time.Now,
		logger:  logger.With(slog.String("processor", "backup")),
	}
}

// ProcessBackup exports the collection and stores it with the backup writer
func (p *BackupProcessor) ProcessBackup(ctx context.Context, t *asynq.Task) error {
	var payload BackupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	if p.backups == nil {
		return fmt.Errorf("no backup destination configured: %w", asynq.SkipRetry)
	}

	name := payload.Name
	if name == "" {
		name = BackupName(p.now())
	}

	data, err := p.repo.ExportAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to export inventory: %w", err)
	}

	location, err := p.backups.PutBackup(ctx, name, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	p.logger.InfoContext(ctx, "inventory backup written",
		slog.String("location", location),
		slog.Int("size", len(data)))

	return nil
}

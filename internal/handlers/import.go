// internal/handlers/import.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/stockscan/internal/core/ports"
	"github.com/ammerola/stockscan/internal/workers"
)

// TaskInspector looks up queued tasks. *asynq.Inspector satisfies it.
type TaskInspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
}

const importQueue = "default"

// ImportHandler accepts collection and spreadsheet uploads
type ImportHandler struct {
	repo        ports.InventoryRepository
	enqueuer    ports.TaskEnqueuer
	inspector   TaskInspector
	processor   *workers.ImportProcessor
	maxFileSize int64
	logger      *slog.Logger
}

// NewImportHandler creates a new import handler. Without an enqueuer,
// spreadsheets are imported during the request.
func NewImportHandler(repo ports.InventoryRepository, enqueuer ports.TaskEnqueuer, inspector TaskInspector, maxFileSize int64, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		repo:        repo,
		enqueuer:    enqueuer,
		inspector:   inspector,
		processor:   workers.NewImportProcessor(repo, logger),
		maxFileSize: maxFileSize,
		logger:      logger.With(slog.String("handler", "import")),
	}
}

// ImportJSON handles POST /api/v1/import/json. The body replaces the whole collection.
func (h *ImportHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxFileSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, h.logger, http.StatusRequestEntityTooLarge, "Upload is too large")
			return
		}
		respondError(w, h.logger, http.StatusBadRequest, "Failed to read request body")
		return
	}

	count, err := h.repo.ImportAll(ctx, data)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to import inventory")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"imported": count,
		"message":  "Inventory replaced",
	})
}

// ImportExcel handles POST /api/v1/import/excel
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		respondError(w, h.logger, http.StatusBadRequest, "Only .xlsx files are allowed")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Failed to read upload")
		return
	}

	if h.enqueuer == nil {
		result, err := h.processor.Import(ctx, data)
		if err != nil {
			respondServiceError(w, r, h.logger, err, "Failed to import spreadsheet")
			return
		}
		respondJSON(w, h.logger, http.StatusOK, result)
		return
	}

	jobID := uuid.New().String()
	task, err := workers.NewSpreadsheetImportTask(workers.SpreadsheetImportPayload{
		JobID:    jobID,
		FileName: header.Filename,
		Data:     data,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create import task", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to create import task")
		return
	}

	info, err := h.enqueuer.EnqueueContext(ctx, task, asynq.Queue(importQueue), asynq.TaskID(jobID))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to queue import job", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	h.logger.InfoContext(ctx, "excel import queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID),
		slog.String("file_name", header.Filename))

	respondJSON(w, h.logger, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Excel import has been queued for processing",
	})
}

// ImportStatus handles GET /api/v1/import/status/{jobId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")

	if h.inspector == nil {
		respondError(w, h.logger, http.StatusNotFound, "Job not found")
		return
	}

	info, err := h.inspector.GetTaskInfo(importQueue, jobID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			respondError(w, h.logger, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to get job status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to get job status")
		return
	}

	status := map[string]interface{}{
		"job_id": jobID,
		"status": info.State.String(),
	}
	if info.LastErr != "" {
		status["error"] = info.LastErr
	}
	if len(info.Result) > 0 {
		var result workers.SpreadsheetImportResult
		if err := json.Unmarshal(info.Result, &result); err == nil {
			status["result"] = result
		}
	}

	respondJSON(w, h.logger, http.StatusOK, status)
}

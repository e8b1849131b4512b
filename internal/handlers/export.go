// internal/handlers/export.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ammerola/stockscan/internal/adapters/spreadsheet"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// ExportHandler serves full-collection downloads
type ExportHandler struct {
	repo   ports.InventoryRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(repo ports.InventoryRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		repo:   repo,
		now:    time.Now,
		logger: logger.With(slog.String("handler", "export")),
	}
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.repo.ExportAll(ctx)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to export inventory")
		return
	}

	h.writeAttachment(w, r, "application/json", h.filename("json"), data)
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.repo.GetAll(ctx, true)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to export inventory")
		return
	}

	data, err := spreadsheet.Encode(items)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	h.writeAttachment(w, r, spreadsheet.ContentType, h.filename("xlsx"), data)

	h.logger.InfoContext(ctx, "excel export completed", slog.Int("total_rows", len(items)))
}

func (h *ExportHandler) filename(ext string) string {
	return fmt.Sprintf("inventory_export_%s.%s", h.now().Format("20060102_150405"), ext)
}

func (h *ExportHandler) writeAttachment(w http.ResponseWriter, r *http.Request, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write export response",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
	}
}

// internal/handlers/dashboard.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// DashboardHandler serves the stock overview
type DashboardHandler struct {
	repo   ports.InventoryRepository
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(repo ports.InventoryRepository, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		repo:   repo,
		logger: logger.With(slog.String("handler", "dashboard")),
	}
}

// DashboardData is the stock overview
type DashboardData struct {
	Stats      domain.Stats           `json:"stats"`
	LowStock   []domain.InventoryItem `json:"lowStock"`
	OutOfStock []domain.InventoryItem `json:"outOfStock"`
	Timestamp  time.Time              `json:"timestamp"`
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.GetAll(r.Context(), false)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to load dashboard")
		return
	}

	dashboard := DashboardData{
		Stats:      domain.ComputeStats(items),
		LowStock:   make([]domain.InventoryItem, 0),
		OutOfStock: make([]domain.InventoryItem, 0),
		Timestamp:  time.Now().UTC(),
	}
	for i := range items {
		switch {
		case items[i].Quantity == 0:
			dashboard.OutOfStock = append(dashboard.OutOfStock, items[i])
		case items[i].IsLowStock():
			dashboard.LowStock = append(dashboard.LowStock, items[i])
		}
	}

	respondJSON(w, h.logger, http.StatusOK, dashboard)
}

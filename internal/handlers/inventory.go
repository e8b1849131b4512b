// internal/handlers/inventory.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	repo     ports.InventoryRepository
	resolver ports.InventoryResolver
	logger   *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(repo ports.InventoryRepository, resolver ports.InventoryResolver, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		repo:     repo,
		resolver: resolver,
		logger:   logger.With(slog.String("handler", "inventory")),
	}
}

// ListResponse wraps a list of items
type ListResponse struct {
	Items []domain.InventoryItem `json:"items"`
	Total int                    `json:"total"`
}

// QuantityRequest carries a stock quantity as a number or numeric string
type QuantityRequest struct {
	Quantity domain.FieldValue `json:"quantity"`
}

// ResolveRequest is the body of POST /api/v1/resolve
type ResolveRequest struct {
	Code string `json:"code"`
}

// SellRequest is the body of POST /api/v1/sell
type SellRequest struct {
	ItemID   string            `json:"itemId"`
	Quantity domain.FieldValue `json:"quantity"`
}

// ListInventory handles GET /api/v1/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	lowStock, _ := strconv.ParseBool(r.URL.Query().Get("low_stock"))

	items, err := h.repo.GetAll(ctx, refresh)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to list inventory items")
		return
	}

	if lowStock {
		filtered := make([]domain.InventoryItem, 0)
		for i := range items {
			if items[i].IsLowStock() {
				filtered = append(filtered, items[i])
			}
		}
		items = filtered
	}

	respondJSON(w, h.logger, http.StatusOK, ListResponse{Items: items, Total: len(items)})
}

// GetInventory handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	item, err := h.repo.GetByID(ctx, id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to retrieve inventory item")
		return
	}
	if item == nil {
		respondError(w, h.logger, http.StatusNotFound, "Inventory item not found")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// GetByBarcode handles GET /api/v1/inventory/barcode/{barcode}
func (h *InventoryHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	barcode := r.PathValue("barcode")

	item, err := h.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to look up barcode")
		return
	}
	if item == nil {
		respondError(w, h.logger, http.StatusNotFound, "No item with that barcode")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// Search handles GET /api/v1/search?q=
func (h *InventoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to search inventory")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, ListResponse{Items: items, Total: len(items)})
}

// CreateInventory handles POST /api/v1/inventory
func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var draft domain.ItemDraft
	if err := decodeJSON(r, &draft); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.repo.Add(ctx, draft)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to create inventory item")
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, item)
}

// UpdateInventory handles PATCH /api/v1/inventory/{id}
func (h *InventoryHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var patch domain.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	patch.ID = r.PathValue("id")

	item, err := h.repo.Update(ctx, patch)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to update inventory item")
		return
	}
	if item == nil {
		respondError(w, h.logger, http.StatusNotFound, "Inventory item not found")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// DeleteInventory handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	deleted, err := h.repo.Delete(ctx, id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to delete inventory item")
		return
	}
	if !deleted {
		respondError(w, h.logger, http.StatusNotFound, "Inventory item not found")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Inventory item deleted successfully",
		"id":      id,
	})
}

// RemoveStock handles POST /api/v1/inventory/{id}/remove-stock
func (h *InventoryHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req QuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	qty, ok := domain.ParsePositiveQuantity(string(req.Quantity))
	if !ok {
		h.respondRemoval(w, domain.StockRemoval{Status: domain.RemovalInvalidQuantity})
		return
	}

	outcome, err := h.repo.RemoveStock(ctx, r.PathValue("id"), qty)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to remove stock")
		return
	}

	h.respondRemoval(w, outcome)
}

// Resolve handles POST /api/v1/resolve
func (h *InventoryHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResolveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.resolver.ResolveCode(ctx, req.Code)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to resolve code")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, res)
}

// Sell handles POST /api/v1/sell
func (h *InventoryHandler) Sell(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SellRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	qty, ok := domain.ParsePositiveQuantity(string(req.Quantity))
	if !ok {
		h.respondRemoval(w, domain.StockRemoval{Status: domain.RemovalInvalidQuantity})
		return
	}

	outcome, err := h.resolver.Sell(ctx, req.ItemID, qty)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to process sale")
		return
	}

	h.respondRemoval(w, outcome)
}

// Stats handles GET /api/v1/stats
func (h *InventoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to compute stats")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, stats)
}

// ClearInventory handles DELETE /api/v1/inventory?confirm=true
func (h *InventoryHandler) ClearInventory(w http.ResponseWriter, r *http.Request) {
	if confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirmed {
		respondError(w, h.logger, http.StatusBadRequest, "Clearing the inventory requires confirm=true")
		return
	}

	if err := h.repo.ClearAll(r.Context()); err != nil {
		respondServiceError(w, r, h.logger, err, "Failed to clear inventory")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Inventory cleared"})
}

// respondRemoval writes a stock removal outcome with a status matching it
func (h *InventoryHandler) respondRemoval(w http.ResponseWriter, outcome domain.StockRemoval) {
	status := http.StatusOK
	switch outcome.Status {
	case domain.RemovalNotFound:
		status = http.StatusNotFound
	case domain.RemovalInvalidQuantity:
		status = http.StatusBadRequest
	case domain.RemovalInsufficientStock:
		status = http.StatusConflict
	}
	respondJSON(w, h.logger, status, outcome)
}

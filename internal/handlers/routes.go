// internal/handlers/routes.go
package handlers

import "net/http"

const apiV1 = "/api/v1"

// Routes groups the handlers served by the API
type Routes struct {
	Inventory *InventoryHandler
	Export    *ExportHandler
	Import    *ImportHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
}

// Register adds every route to mux. Nil handlers are skipped.
func (rt *Routes) Register(mux *http.ServeMux) {
	if h := rt.Health; h != nil {
		mux.HandleFunc("GET /health", h.Health)
		mux.HandleFunc("GET /ready", h.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", h.Health)
	}

	if h := rt.Inventory; h != nil {
		mux.HandleFunc("GET "+apiV1+"/inventory", h.ListInventory)
		mux.HandleFunc("POST "+apiV1+"/inventory", h.CreateInventory)
		mux.HandleFunc("DELETE "+apiV1+"/inventory", h.ClearInventory)
		mux.HandleFunc("GET "+apiV1+"/inventory/{id}", h.GetInventory)
		mux.HandleFunc("PATCH "+apiV1+"/inventory/{id}", h.UpdateInventory)
		mux.HandleFunc("DELETE "+apiV1+"/inventory/{id}", h.DeleteInventory)
		mux.HandleFunc("POST "+apiV1+"/inventory/{id}/remove-stock", h.RemoveStock)
		mux.HandleFunc("GET "+apiV1+"/inventory/barcode/{barcode}", h.GetByBarcode)
		mux.HandleFunc("GET "+apiV1+"/search", h.Search)
		mux.HandleFunc("POST "+apiV1+"/resolve", h.Resolve)
		mux.HandleFunc("POST "+apiV1+"/sell", h.Sell)
		mux.HandleFunc("GET "+apiV1+"/stats", h.Stats)
	}

	if h := rt.Export; h != nil {
		mux.HandleFunc("GET "+apiV1+"/export/json", h.ExportJSON)
		mux.HandleFunc("GET "+apiV1+"/export/excel", h.ExportExcel)
	}

	if h := rt.Import; h != nil {
		mux.HandleFunc("POST "+apiV1+"/import/json", h.ImportJSON)
		mux.HandleFunc("POST "+apiV1+"/import/excel", h.ImportExcel)
		mux.HandleFunc("GET "+apiV1+"/import/status/{jobId}", h.ImportStatus)
	}

	if h := rt.Dashboard; h != nil {
		mux.HandleFunc("GET "+apiV1+"/dashboard", h.GetDashboard)
	}
}

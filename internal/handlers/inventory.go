package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lakbill/billing-app/internal/httpx"
	"github.com/lakbill/billing-app/internal/store"
)

// InventoryHandler serves the reusable-item registry.
type InventoryHandler struct {
	Store *store.Store
}

func NewInventoryHandler(s *store.Store) *InventoryHandler {
	return &InventoryHandler{Store: s}
}

// List: GET /api/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.Store.Inventory()
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// SaveItem: POST /api/inventory/items – body {"description": ..., "unitPrice": ...}
func (h *InventoryHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string  `json:"description"`
		UnitPrice   float64 `json:"unitPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	notice, err := h.Store.SaveItemToInventory(req.Description, req.UnitPrice)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_item", map[string]string{"message": notice})
		return
	}
	httpx.JSONNotice(w, notice, nil)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lakbill/billing-app/internal/httpx"
	"github.com/lakbill/billing-app/internal/store"
)

// ClientHandler serves the remembered-client registry.
type ClientHandler struct {
	Store *store.Store
}

func NewClientHandler(s *store.Store) *ClientHandler {
	return &ClientHandler{Store: s}
}

// List: GET /api/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients := h.Store.Clients()
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "total": len(clients)})
}

// Select: POST /api/document/client – body {"id": ...}; copies the stored
// client's details into the edit buffer.
func (h *ClientHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	doc, err := h.Store.SelectClient(req.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"clientDetails": doc.ClientDetails})
}

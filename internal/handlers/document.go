package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/lakbill/billing-app/internal/httpx"
	"github.com/lakbill/billing-app/internal/models"
	"github.com/lakbill/billing-app/internal/pdf"
	"github.com/lakbill/billing-app/internal/services"
	"github.com/lakbill/billing-app/internal/store"
	"github.com/lakbill/billing-app/internal/validation"
	"github.com/lakbill/billing-app/internal/words"
)

// DocumentHandler serves the edit buffer and the store operations around it.
type DocumentHandler struct {
	Store *store.Store
}

func NewDocumentHandler(s *store.Store) *DocumentHandler {
	return &DocumentHandler{Store: s}
}

// documentState is what the form renderer consumes: the buffer plus every
// derived field, recomputed on each request so nothing can go stale.
type documentState struct {
	Document   models.Document       `json:"document"`
	Totals     services.Totals       `json:"totals"`
	Valid      bool                  `json:"valid"`
	Violations validation.Violations `json:"violations,omitempty"`
	Cursor     int                   `json:"cursor"`
	SavedCount int                   `json:"savedCount"`
}

func (h *DocumentHandler) state(doc models.Document, cursor, count int) documentState {
	violations := doc.Validate()
	st := documentState{
		Document:   doc,
		Totals:     services.ComputeTotals(doc.Items, doc.TaxRate),
		Valid:      violations.Empty(),
		Cursor:     cursor,
		SavedCount: count,
	}
	if !st.Valid {
		st.Violations = violations
	}
	return st
}

func (h *DocumentHandler) currentState() documentState {
	doc, cursor, count := h.Store.Snapshot()
	return h.state(doc, cursor, count)
}

// Get: GET /api/document
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.currentState())
}

// Update: PUT /api/document – replaces the edit buffer with the posted document.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if doc.Type != "" && !doc.Type.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_document_type", nil)
		return
	}
	h.Store.SetCurrent(doc)
	httpx.JSON(w, http.StatusOK, h.currentState())
}

// Create: POST /api/documents?type=invoice|quotation (default quotation)
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	t := models.DocumentType(r.URL.Query().Get("type"))
	if t == "" {
		t = models.TypeQuotation
	}
	if !t.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_document_type", nil)
		return
	}
	_, notice := h.Store.NewDocument(t)
	httpx.JSONNotice(w, notice, h.currentState())
}

// Save: POST /api/documents/save
func (h *DocumentHandler) Save(w http.ResponseWriter, r *http.Request) {
	res, err := h.Store.Save()
	if err != nil {
		doc, _, _ := h.Store.Snapshot()
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]any{
			"message":    "Please fill all required fields before saving.",
			"violations": doc.Validate(),
		})
		return
	}
	httpx.JSONNotice(w, res.Notice, map[string]any{
		"created":     res.Created,
		"index":       res.Index,
		"clientAdded": res.Client,
		"state":       h.currentState(),
	})
}

// Navigate: POST /api/documents/navigate?direction=prev|next
func (h *DocumentHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	dir := store.Direction(r.URL.Query().Get("direction"))
	if dir != store.DirPrev && dir != store.DirNext {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_direction", nil)
		return
	}
	_, notice, err := h.Store.Navigate(dir)
	if err != nil {
		httpx.JSONError(w, http.StatusConflict, "no_saved_documents", map[string]string{"message": notice})
		return
	}
	httpx.JSONNotice(w, notice, h.currentState())
}

// ChangeType: POST /api/documents/type – body {"type": "invoice"}
func (h *DocumentHandler) ChangeType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type models.DocumentType `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if _, err := h.Store.ChangeType(req.Type); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_document_type", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, h.currentState())
}

// AddItem: POST /api/document/items – appends an empty line to the buffer.
func (h *DocumentHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.Store.AddItem()
	httpx.JSON(w, http.StatusOK, h.currentState())
}

// DeleteItem: DELETE /api/document/items/{id}
func (h *DocumentHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.Store.DeleteItem(id); err != nil {
		httpx.JSONError(w, http.StatusNotFound, "item_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, h.currentState())
}

// List: GET /api/documents – the saved list, in save order.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs := h.Store.Documents()
	httpx.JSON(w, http.StatusOK, map[string]any{"items": docs, "total": len(docs)})
}

// PDF: GET /api/document/pdf – renders the edit buffer; refused while invalid.
func (h *DocumentHandler) PDF(w http.ResponseWriter, r *http.Request) {
	doc, _, _ := h.Store.Snapshot()
	violations := doc.Validate()
	if !violations.Empty() {
		httpx.JSONError(w, http.StatusConflict, "document_invalid", violations)
		return
	}
	totals := services.ComputeTotals(doc.Items, doc.TaxRate)
	data, err := pdf.Render(pdf.Input{
		Doc:           doc,
		Totals:        totals,
		AmountInWords: words.Convert(totals.GrandTotal),
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	filename := strings.NewReplacer("/", "-", "\\", "-", "\"", "").Replace(doc.Number) + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lakbill/billing-app/internal/models"
	"github.com/lakbill/billing-app/internal/numbering"
	"github.com/lakbill/billing-app/internal/storage"
	"github.com/lakbill/billing-app/internal/store"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	blobs, err := storage.New(db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	company := models.CompanyDetails{Name: "Test Co", Address: "1 Test Lane"}
	clock := func() time.Time { return time.Date(2025, 8, 31, 10, 0, 0, 0, time.UTC) }
	return store.New(blobs, numbering.DefaultScheme(), company, log, store.WithClock(clock))
}

func completeBuffer(t *testing.T, s *store.Store) {
	t.Helper()
	doc, _, _ := s.Snapshot()
	doc.ClientDetails = models.ClientDetails{Name: "Client Co", Address: "2 Kandy Road", Email: "billing@client.lk"}
	s.SetCurrent(doc)
}

func TestDocumentGetState(t *testing.T) {
	s := setupStore(t)
	h := NewDocumentHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/document", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var st struct {
		Document   models.Document   `json:"document"`
		Valid      bool              `json:"valid"`
		Violations map[string]string `json:"violations"`
		Cursor     int               `json:"cursor"`
		Totals     struct {
			GrandTotal float64 `json:"grandTotal"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Valid {
		t.Fatal("fresh buffer has no client details, must be invalid")
	}
	if _, ok := st.Violations["client.email"]; !ok {
		t.Fatalf("expected client.email violation, got %v", st.Violations)
	}
	if st.Cursor != -1 {
		t.Fatalf("expected unsaved cursor, got %d", st.Cursor)
	}
	// sample items: 2*1500 + 7500 with 10% line discount, no tax
	if st.Totals.GrandTotal != 9750 {
		t.Fatalf("expected grand total 9750, got %v", st.Totals.GrandTotal)
	}
}

func TestDocumentUpdateRecomputesDerivedState(t *testing.T) {
	s := setupStore(t)
	h := NewDocumentHandler(s)

	doc, _, _ := s.Snapshot()
	doc.ClientDetails = models.ClientDetails{Name: "Client Co", Address: "2 Kandy Road", Email: "billing@client.lk"}
	doc.TaxRate = 10
	body, _ := json.Marshal(doc)

	req := httptest.NewRequest(http.MethodPut, "/api/document", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var st struct {
		Valid  bool `json:"valid"`
		Totals struct {
			Tax        float64 `json:"taxAmount"`
			GrandTotal float64 `json:"grandTotal"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.Valid {
		t.Fatal("completed buffer should be valid")
	}
	if st.Totals.Tax != 975 || st.Totals.GrandTotal != 10725 {
		t.Fatalf("totals not recomputed: %+v", st.Totals)
	}
}

func TestDocumentSaveInvalidRejected(t *testing.T) {
	s := setupStore(t)
	h := NewDocumentHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/save", nil)
	w := httptest.NewRecorder()
	h.Save(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "client.email") {
		t.Fatalf("expected violations in body, got %s", w.Body.String())
	}
}

func TestDocumentSaveThenNavigate(t *testing.T) {
	s := setupStore(t)
	h := NewDocumentHandler(s)
	completeBuffer(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/save", nil)
	w := httptest.NewRecorder()
	h.Save(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var saved struct {
		Message string `json:"message"`
		Data    struct {
			Created bool `json:"created"`
			Index   int  `json:"index"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved.Message != "quotation saved." || !saved.Data.Created || saved.Data.Index != 0 {
		t.Fatalf("unexpected save response: %s", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/documents/navigate?direction=next", nil)
	w = httptest.NewRecorder()
	h.Navigate(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Loaded quotation QTN-202508-001.") {
		t.Fatalf("expected load notice, got %s", w.Body.String())
	}
}

func TestNavigateEmptyStoreConflict(t *testing.T) {
	s := setupStore(t)
	h := NewDocumentHandler(s)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/navigate?direction=prev", nil)
	w := httptest.NewRecorder()
	h.Navigate(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No saved documents to navigate.") {
		t.Fatalf("expected notice, got %s", w.Body.String())
	}
}

func TestNavigateBadDirection(t *testing.T) {
	s := setupStore(t)
	h := NewDocumentHandler(s)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/navigate?direction=sideways", nil)
	w := httptest.NewRecorder()
	h.Navigate(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestChangeTypeEndpoint(t *testing.T) {
	s := setupStore(t)
	h := NewDocumentHandler(s)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/type", strings.NewReader(`{"type":"invoice"}`))
	w := httptest.NewRecorder()
	h.ChangeType(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var st struct {
		Document models.Document `json:"document"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Document.Type != models.TypeInvoice || st.Document.Number != "INV-202508-001" {
		t.Fatalf("type change not applied: %+v", st.Document)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/documents/type", strings.NewReader(`{"type":"estimate"}`))
	w = httptest.NewRecorder()
	h.ChangeType(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", w.Code)
	}
}

func TestAddAndDeleteItemEndpoints(t *testing.T) {
	s := setupStore(t)
	h := NewDocumentHandler(s)

	w := httptest.NewRecorder()
	h.AddItem(w, httptest.NewRequest(http.MethodPost, "/api/document/items", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var st struct {
		Document models.Document `json:"document"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(st.Document.Items) != 3 {
		t.Fatalf("expected three items after add, got %d", len(st.Document.Items))
	}

	id := st.Document.Items[2].ID
	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/document/items/"+id, nil), map[string]string{"id": id})
	w = httptest.NewRecorder()
	h.DeleteItem(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(st.Document.Items) != 2 {
		t.Fatalf("expected two items after delete, got %d", len(st.Document.Items))
	}

	req = mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/document/items/missing", nil), map[string]string{"id": "missing"})
	w = httptest.NewRecorder()
	h.DeleteItem(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", w.Code)
	}
}

func TestPDFRefusedWhileInvalid(t *testing.T) {
	s := setupStore(t)
	h := NewDocumentHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/document/pdf", nil)
	w := httptest.NewRecorder()
	h.PDF(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
}

func TestPDFRendersValidDocument(t *testing.T) {
	s := setupStore(t)
	h := NewDocumentHandler(s)
	completeBuffer(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/document/pdf", nil)
	w := httptest.NewRecorder()
	h.PDF(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "QTN-202508-001.pdf") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("body does not look like a PDF")
	}
}

func TestInventorySaveItemEndpoint(t *testing.T) {
	s := setupStore(t)
	h := NewInventoryHandler(s)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/inventory/items", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.SaveItem(w, req)
		return w
	}

	if w := post(`{"description":"Widget","unitPrice":10}`); w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if w := post(`{"description":"widget","unitPrice":10}`); !strings.Contains(w.Body.String(), "already in inventory") {
		t.Fatalf("expected already-exists notice, got %s", w.Body.String())
	}
	if w := post(`{"description":"Widget","unitPrice":20}`); !strings.Contains(w.Body.String(), "price updated") {
		t.Fatalf("expected price-updated notice, got %s", w.Body.String())
	}
	if w := post(`{"description":"","unitPrice":10}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	var list struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected a single inventory entry, got %d", list.Total)
	}
}

func TestClientSelectEndpoint(t *testing.T) {
	s := setupStore(t)
	dh := NewDocumentHandler(s)
	ch := NewClientHandler(s)
	completeBuffer(t, s)

	w := httptest.NewRecorder()
	dh.Save(w, httptest.NewRequest(http.MethodPost, "/api/documents/save", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("save failed: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	ch.List(w, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	var list struct {
		Items []models.Client `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("expected one client, got %d", len(list.Items))
	}

	body, _ := json.Marshal(map[string]string{"id": list.Items[0].ID})
	w = httptest.NewRecorder()
	ch.Select(w, httptest.NewRequest(http.MethodPost, "/api/document/client", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	ch.Select(w, httptest.NewRequest(http.MethodPost, "/api/document/client", strings.NewReader(`{"id":"missing"}`)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

// Package store owns the application state: the saved-document list, the
// inventory and client registries, and the transient edit buffer with its
// cursor. All mutation goes through the store, which persists each change to
// the blob store as a fire-and-forget write.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lakbill/billing-app/internal/models"
	"github.com/lakbill/billing-app/internal/numbering"
	"github.com/lakbill/billing-app/internal/storage"
)

type Direction string

const (
	DirPrev Direction = "prev"
	DirNext Direction = "next"
)

var (
	// ErrInvalidDocument rejects save/export while the validity gate is down.
	ErrInvalidDocument = errors.New("document is missing required fields")
	// ErrInvalidItem rejects an inventory save without a description or a
	// positive price.
	ErrInvalidItem = errors.New("inventory item needs a description and a positive price")
	// ErrEmptyStore rejects navigation when nothing has been saved yet.
	ErrEmptyStore = errors.New("no saved documents to navigate")
	// ErrStaleUpload drops a logo upload superseded by a newer one.
	ErrStaleUpload = errors.New("upload superseded by a newer one")
	// ErrNotFound reports a missing registry entry.
	ErrNotFound = errors.New("not found")
)

type Store struct {
	mu     sync.Mutex
	blobs  *storage.BlobStore
	log    *logrus.Logger
	scheme numbering.Scheme
	// company defaults stamped onto fresh documents
	company models.CompanyDetails
	now     func() time.Time

	docs      []models.Document
	inventory []models.InventoryItem
	clients   []models.Client

	current models.Document
	cursor  int // index into docs, -1 while the buffer is unsaved
	logoGen uint64
}

type Option func(*Store)

// WithClock overrides the store's clock (tests pin numbering scopes with it).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New loads the three persisted blobs and primes the edit buffer: the most
// recently saved document when any exist, otherwise a fresh quotation.
func New(blobs *storage.BlobStore, scheme numbering.Scheme, company models.CompanyDetails, log *logrus.Logger, opts ...Option) *Store {
	s := &Store{
		blobs:   blobs,
		log:     log,
		scheme:  scheme,
		company: company,
		now:     time.Now,
		cursor:  -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.docs = storage.LoadList[models.Document](blobs, storage.DocumentsKey)
	s.inventory = storage.LoadList[models.InventoryItem](blobs, storage.InventoryKey)
	s.clients = storage.LoadList[models.Client](blobs, storage.ClientsKey)
	if len(s.docs) > 0 {
		s.cursor = len(s.docs) - 1
		s.current = s.docs[s.cursor]
	} else {
		s.current = s.newDocument(models.TypeQuotation)
	}
	return s
}

// Snapshot returns a copy of the edit buffer with its cursor position and the
// saved-document count.
func (s *Store) Snapshot() (doc models.Document, cursor, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyCurrent(), s.cursor, len(s.docs)
}

// SetCurrent replaces the edit buffer. This is the single write path for
// field-level edits; lines added by the renderer without an id get one here.
func (s *Store) SetCurrent(doc models.Document) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range doc.Items {
		if doc.Items[i].ID == "" {
			doc.Items[i].ID = uuid.NewString()
		}
	}
	s.current = doc
	return s.copyCurrent()
}

// NewDocument resets the buffer to a fresh document of the given type and
// detaches the cursor. The previous buffer is discarded.
func (s *Store) NewDocument(t models.DocumentType) (models.Document, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.newDocument(t)
	s.cursor = -1
	return s.copyCurrent(), fmt.Sprintf("New %s created.", t)
}

// SaveResult reports what a save did.
type SaveResult struct {
	Created bool           `json:"created"`
	Index   int            `json:"index"`
	Notice  string         `json:"notice"`
	Client  *models.Client `json:"clientAdded,omitempty"`
}

// Save stores the edit buffer: replace in place when the cursor points at a
// saved entry, append otherwise. An invalid document is rejected without any
// mutation. A previously unseen client name is added to the client registry;
// an existing match is never touched.
func (s *Store) Save() (SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current.IsValid() {
		return SaveResult{}, ErrInvalidDocument
	}

	res := SaveResult{}
	if name := strings.TrimSpace(s.current.ClientDetails.Name); name != "" {
		if s.findClient(name) == nil {
			c := models.Client{
				ID:      uuid.NewString(),
				Name:    s.current.ClientDetails.Name,
				Address: s.current.ClientDetails.Address,
				Email:   s.current.ClientDetails.Email,
			}
			s.clients = append(s.clients, c)
			res.Client = &c
			s.persist(storage.ClientsKey, s.clients)
		}
	}

	if s.cursor >= 0 && s.cursor < len(s.docs) {
		s.docs[s.cursor] = s.copyCurrent()
		res.Index = s.cursor
		res.Notice = fmt.Sprintf("%s updated.", s.current.Type)
	} else {
		s.docs = append(s.docs, s.copyCurrent())
		s.cursor = len(s.docs) - 1
		res.Created = true
		res.Index = s.cursor
		res.Notice = fmt.Sprintf("%s saved.", s.current.Type)
	}
	s.persist(storage.DocumentsKey, s.docs)
	return res, nil
}

// Navigate moves the cursor circularly through the saved list and loads the
// target into the edit buffer. Unsaved edits are discarded without
// confirmation; that is the accepted behaviour, not an oversight.
func (s *Store) Navigate(dir Direction) (models.Document, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.docs) == 0 {
		return models.Document{}, "No saved documents to navigate.", ErrEmptyStore
	}
	idx := s.cursor
	if dir == DirPrev {
		if idx <= 0 {
			idx = len(s.docs) - 1
		} else {
			idx--
		}
	} else {
		if idx >= len(s.docs)-1 || idx == -1 {
			idx = 0
		} else {
			idx++
		}
	}
	s.cursor = idx
	s.current = s.docs[idx]
	doc := s.copyCurrent()
	return doc, fmt.Sprintf("Loaded %s %s.", doc.Type, doc.Number), nil
}

// ChangeType switches the buffer between invoice and quotation. The number is
// regenerated for the new scope when the buffer is unsaved or its number has
// already drifted from the stored entry; due date and subtitle reset to the
// type defaults either way.
func (s *Store) ChangeType(t models.DocumentType) (models.Document, error) {
	if !t.Valid() {
		return models.Document{}, fmt.Errorf("unknown document type %q", t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	regenerate := s.cursor == -1 ||
		(s.cursor >= 0 && s.cursor < len(s.docs) && s.docs[s.cursor].Number != s.current.Number)
	s.current.Type = t
	if regenerate {
		s.current.Number = s.scheme.Next(s.docs, t, s.now())
	}
	s.current.DueDate = s.now().AddDate(0, 0, t.DueDays()).Format(models.DateLayout)
	s.current.Subtitle = t.DefaultSubtitle()
	return s.copyCurrent(), nil
}

// SaveItemToInventory upserts the registry entry for the description:
// unknown names append, a known name with a new price is re-priced in place,
// a known name at the same price is left alone.
func (s *Store) SaveItemToInventory(description string, unitPrice float64) (string, error) {
	if strings.TrimSpace(description) == "" || unitPrice <= 0 {
		return "Item description and price are needed to save to inventory.", ErrInvalidItem
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lower := strings.ToLower(description)
	for i := range s.inventory {
		if strings.ToLower(s.inventory[i].Name) != lower {
			continue
		}
		if s.inventory[i].UnitPrice == unitPrice {
			return fmt.Sprintf("Item '%s' already in inventory with the same price.", description), nil
		}
		s.inventory[i].UnitPrice = unitPrice
		s.persist(storage.InventoryKey, s.inventory)
		return fmt.Sprintf("Inventory item '%s' price updated.", description), nil
	}
	s.inventory = append(s.inventory, models.InventoryItem{ID: uuid.NewString(), Name: description, UnitPrice: unitPrice})
	s.persist(storage.InventoryKey, s.inventory)
	return fmt.Sprintf("Item '%s' saved to inventory.", description), nil
}

// AddItem appends an empty line to the buffer.
func (s *Store) AddItem() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Items = append(s.current.Items, models.NewLineItem())
	return s.copyCurrent()
}

// DeleteItem removes the buffer line with the given id.
func (s *Store) DeleteItem(id string) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current.DeleteItem(id) {
		return models.Document{}, ErrNotFound
	}
	return s.copyCurrent(), nil
}

// SelectClient copies a stored client's details into the buffer.
func (s *Store) SelectClient(id string) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.ID == id {
			s.current.ClientDetails = models.ClientDetails{Name: c.Name, Address: c.Address, Email: c.Email}
			return s.copyCurrent(), nil
		}
	}
	return models.Document{}, ErrNotFound
}

// BeginLogoUpload starts (and thereby supersedes any in-flight) logo upload
// and returns its generation token.
func (s *Store) BeginLogoUpload() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoGen++
	return s.logoGen
}

// CompleteLogoUpload applies the decoded logo, unless a newer upload has
// started since gen was issued.
func (s *Store) CompleteLogoUpload(gen uint64, dataURL string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.logoGen {
		return "A newer logo upload replaced this one.", ErrStaleUpload
	}
	s.current.CompanyDetails.LogoURL = dataURL
	return "Logo uploaded successfully.", nil
}

// Documents returns a copy of the saved list, in save order.
func (s *Store) Documents() []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

func (s *Store) Inventory() []models.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InventoryItem, len(s.inventory))
	copy(out, s.inventory)
	return out
}

func (s *Store) Clients() []models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Client, len(s.clients))
	copy(out, s.clients)
	return out
}

// Ping exposes the blob-store health check.
func (s *Store) Ping() error { return s.blobs.Ping() }

func (s *Store) findClient(name string) *models.Client {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i := range s.clients {
		if strings.ToLower(s.clients[i].Name) == lower {
			return &s.clients[i]
		}
	}
	return nil
}

// copyCurrent deep-copies the buffer so callers cannot alias the item slice.
func (s *Store) copyCurrent() models.Document {
	doc := s.current
	doc.Items = make([]models.LineItem, len(s.current.Items))
	copy(doc.Items, s.current.Items)
	return doc
}

func (s *Store) newDocument(t models.DocumentType) models.Document {
	now := s.now()
	return models.Document{
		CompanyDetails: s.company,
		ClientDetails:  models.ClientDetails{},
		Number:         s.scheme.Next(s.docs, t, now),
		IssueDate:      now.Format(models.DateLayout),
		DueDate:        now.AddDate(0, 0, t.DueDays()).Format(models.DateLayout),
		Items: []models.LineItem{
			{ID: uuid.NewString(), Description: "Sample Product A (LKR)", Quantity: 2, UnitPrice: 1500},
			{ID: uuid.NewString(), Description: "Sample Service B (LKR)", Quantity: 1, UnitPrice: 7500, DiscountPercentage: 10},
		},
		Notes:    "Thank you for your business! All amounts in Sri Lankan Rupees (LKR).",
		TaxRate:  0,
		Type:     t,
		Subtitle: t.DefaultSubtitle(),
		Terms:    "1. Payment to be made within 30 days.\n2. Goods once sold will not be taken back.\n3. Interest at 2% per month will be charged on overdue accounts.",
	}
}

// persist writes a list blob; failures are logged and not retried (the
// in-memory state stays authoritative for the session).
func (s *Store) persist(key string, list any) {
	var err error
	switch v := list.(type) {
	case []models.Document:
		err = storage.SaveList(s.blobs, key, v)
	case []models.InventoryItem:
		err = storage.SaveList(s.blobs, key, v)
	case []models.Client:
		err = storage.SaveList(s.blobs, key, v)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{"key": key}).WithError(err).Error("persist failed")
	}
}

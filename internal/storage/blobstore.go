// Package storage persists application state as opaque JSON blobs in a single
// sqlite table, keyed by name. Keys are versioned by naming convention; a
// format change gets a new key and abandons the old blob.
package storage

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	DocumentsKey = "lakbill.documents.v2"
	InventoryKey = "lakbill.inventory.v2"
	ClientsKey   = "lakbill.clients.v2"
)

type Blob struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

type BlobStore struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite database at path and migrates the blob table.
func Open(path string) (*BlobStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	return New(db)
}

// New wraps an existing gorm connection (tests pass an in-memory sqlite).
func New(db *gorm.DB) (*BlobStore, error) {
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, err
	}
	return &BlobStore{db: db}, nil
}

// Load returns the blob for key, or nil when the key is absent.
func (s *BlobStore) Load(key string) ([]byte, error) {
	var b Blob
	if err := s.db.First(&b, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return b.Value, nil
}

// Save fully replaces the blob for key.
func (s *BlobStore) Save(key string, value []byte) error {
	b := Blob{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&b).Error
}

// Ping performs a lightweight connectivity check for health endpoints.
func (s *BlobStore) Ping() error {
	return s.db.Exec("SELECT 1").Error
}

// LoadList decodes the blob at key as a list. An absent key, an unreadable
// blob or malformed JSON all load as the empty list, never an error: the
// store must come up even when the persisted state is gone or mangled.
func LoadList[T any](s *BlobStore, key string) []T {
	raw, err := s.Load(key)
	if err != nil || len(raw) == 0 {
		return []T{}
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return []T{}
	}
	return list
}

// SaveList encodes the list and replaces the blob at key.
func SaveList[T any](s *BlobStore, key string, list []T) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.Save(key, raw)
}

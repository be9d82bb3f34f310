// Package filestore implements store.Store on top of a single
// whole-file-encrypted JSON document. Every mutating call rewrites the
// file synchronously before returning, so an acknowledged write is never
// lost by a crash between operations.
package filestore

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/RicheySon/smartcart-akedo/internal/model"
	"github.com/RicheySon/smartcart-akedo/internal/store"
)

// schema is the full on-disk document.
type schema struct {
	Inventory    []model.InventoryItem      `json:"inventory"`
	Transactions []model.Transaction        `json:"transactions"`
	AuditLogs    []model.AuditEntry         `json:"audit_logs"`
	UsageHistory []model.UsageHistory       `json:"usage_history"`
	Carts        []model.Cart               `json:"carts"`
	Settings     map[string]json.RawMessage `json:"settings"`
}

func emptySchema() schema {
	return schema{
		Inventory:    []model.InventoryItem{},
		Transactions: []model.Transaction{},
		AuditLogs:    []model.AuditEntry{},
		UsageHistory: []model.UsageHistory{},
		Carts:        []model.Cart{},
		Settings:     map[string]json.RawMessage{},
	}
}

// DB is the encrypted single-file document store. It serializes all
// access through one mutex; concurrent callers see read-after-write
// consistency within the process.
type DB struct {
	mu   sync.Mutex
	path string
	key  []byte
	log  zerolog.Logger

	loaded bool
	data   schema
}

var _ store.Store = (*DB)(nil)

// Open constructs a DB bound to path and loads it. The secret may be a
// 64-hex-char 256-bit key or any passphrase (hashed into a key).
func Open(path, secret string, log zerolog.Logger) (*DB, error) {
	db := &DB{
		path: path,
		key:  deriveKey(secret),
		log:  log,
		data: emptySchema(),
	}
	if err := db.Load(); err != nil {
		return nil, err
	}
	return db, nil
}

// Load reads the backing file once; later calls are no-ops. A missing
// file initializes an empty schema and persists it. Plaintext legacy JSON
// is adopted as-is and re-encrypted on the next save. Content that fails
// to decrypt is backed up to <path>.bak and replaced with an empty schema:
// losing availability is judged worse than losing a corrupt file's data.
func (db *DB) Load() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.loaded {
		return nil
	}

	raw, err := os.ReadFile(db.path)
	if os.IsNotExist(err) {
		db.loaded = true
		return db.saveLocked()
	}
	if err != nil {
		return err
	}

	content := strings.TrimSpace(string(raw))
	switch {
	case content == "":
		// Empty or just-touched file; write the default structure.
		db.loaded = true
		return db.saveLocked()

	case strings.HasPrefix(content, "{") && strings.Contains(content, `"inventory"`):
		// Plaintext legacy JSON. Adopt it; the next save encrypts it.
		var s schema
		if err := json.Unmarshal([]byte(content), &s); err != nil {
			db.recoverCorrupt(raw, err)
			db.loaded = true
			return nil
		}
		db.adopt(s)
		db.loaded = true
		db.log.Info().Str("path", db.path).Msg("Adopted unencrypted legacy store")
		return nil

	default:
		plaintext, derr := decrypt(db.key, content)
		if derr != nil {
			db.recoverCorrupt(raw, derr)
			db.loaded = true
			return nil
		}
		var s schema
		if uerr := json.Unmarshal(plaintext, &s); uerr != nil {
			db.recoverCorrupt(raw, uerr)
			db.loaded = true
			return nil
		}
		db.adopt(s)
		db.loaded = true
		db.log.Info().Str("path", db.path).Msg("Store loaded")
		return nil
	}
}

// adopt installs a decoded schema, filling any nil sub-collection so the
// typed views never hand out nil slices or maps.
func (db *DB) adopt(s schema) {
	if s.Inventory == nil {
		s.Inventory = []model.InventoryItem{}
	}
	if s.Transactions == nil {
		s.Transactions = []model.Transaction{}
	}
	if s.AuditLogs == nil {
		s.AuditLogs = []model.AuditEntry{}
	}
	if s.UsageHistory == nil {
		s.UsageHistory = []model.UsageHistory{}
	}
	if s.Carts == nil {
		s.Carts = []model.Cart{}
	}
	if s.Settings == nil {
		s.Settings = map[string]json.RawMessage{}
	}
	db.data = s
}

// recoverCorrupt preserves the unreadable file beside the store and
// continues with an empty schema. Silent-recovery policy: the caller sees
// a working, empty store rather than a hard failure.
func (db *DB) recoverCorrupt(raw []byte, cause error) {
	backup := db.path + ".bak"
	if werr := os.WriteFile(backup, raw, 0o600); werr != nil {
		db.log.Error().Err(werr).Str("backup", backup).Msg("Failed to back up corrupt store file")
	} else {
		db.log.Error().Err(cause).Str("backup", backup).Msg("Failed to decrypt store; corrupt file backed up, starting empty")
	}
	db.data = emptySchema()
}

// Save serializes the full in-memory state, encrypts it and overwrites
// the file.
func (db *DB) Save() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.saveLocked()
}

func (db *DB) saveLocked() error {
	blob, err := json.Marshal(db.data)
	if err != nil {
		return err
	}
	sealed, err := encrypt(db.key, blob)
	if err != nil {
		return err
	}
	if err := os.WriteFile(db.path, []byte(sealed), 0o600); err != nil {
		db.log.Error().Err(err).Str("path", db.path).Msg("Failed to save store")
		return err
	}
	return nil
}

func (db *DB) Inventory() store.Collection[model.InventoryItem] {
	return &collection[model.InventoryItem]{db: db, recs: &db.data.Inventory}
}

func (db *DB) Transactions() store.Collection[model.Transaction] {
	return &collection[model.Transaction]{db: db, recs: &db.data.Transactions}
}

func (db *DB) AuditLogs() store.Collection[model.AuditEntry] {
	return &collection[model.AuditEntry]{db: db, recs: &db.data.AuditLogs}
}

func (db *DB) Usage() store.Collection[model.UsageHistory] {
	return &collection[model.UsageHistory]{db: db, recs: &db.data.UsageHistory}
}

func (db *DB) Carts() store.Collection[model.Cart] {
	return &collection[model.Cart]{db: db, recs: &db.data.Carts}
}

func (db *DB) Settings() store.Settings {
	return &settings{db: db}
}

// collection is a typed view over one schema slice. All methods hold the
// DB mutex; mutations persist before returning.
type collection[T any] struct {
	db   *DB
	recs *[]T
}

func (c *collection[T]) Insert(rec T) (T, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	*c.recs = append(*c.recs, rec)
	if err := c.db.saveLocked(); err != nil {
		return rec, err
	}
	return rec, nil
}

func (c *collection[T]) List() []T {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	out := make([]T, len(*c.recs))
	copy(out, *c.recs)
	return out
}

func (c *collection[T]) Find(pred func(*T) bool) []T {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	out := []T{}
	for i := range *c.recs {
		if pred(&(*c.recs)[i]) {
			out = append(out, (*c.recs)[i])
		}
	}
	return out
}

func (c *collection[T]) FindOne(pred func(*T) bool) *T {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	for i := range *c.recs {
		if pred(&(*c.recs)[i]) {
			rec := (*c.recs)[i]
			return &rec
		}
	}
	return nil
}

func (c *collection[T]) Update(pred func(*T) bool, apply func(*T)) (*T, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	for i := range *c.recs {
		if pred(&(*c.recs)[i]) {
			apply(&(*c.recs)[i])
			if err := c.db.saveLocked(); err != nil {
				return nil, err
			}
			rec := (*c.recs)[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (c *collection[T]) Remove(pred func(*T) bool) (*T, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	for i := range *c.recs {
		if pred(&(*c.recs)[i]) {
			rec := (*c.recs)[i]
			*c.recs = append((*c.recs)[:i], (*c.recs)[i+1:]...)
			if err := c.db.saveLocked(); err != nil {
				return nil, err
			}
			return &rec, nil
		}
	}
	return nil, nil
}

// settings is key-value access into the schema's settings map.
type settings struct {
	db *DB
}

func (s *settings) Get(key string, out interface{}) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	raw, ok := s.db.data.Settings[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, err
	}
	return true, nil
}

func (s *settings) Set(key string, value interface{}) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.db.data.Settings[key] = raw
	return s.db.saveLocked()
}

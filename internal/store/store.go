// Package store defines the persistence contract shared by all services.
// The only implementation ships in internal/store/filestore; tests may
// substitute any other implementation of Store.
package store

import "github.com/RicheySon/smartcart-akedo/internal/model"

// Collection is a named, insertion-ordered list of records. Update and
// Remove operate on the first predicate match only and return (nil, nil)
// when nothing matches; callers must check for nil. A non-nil error always
// means the mutation could not be persisted.
type Collection[T any] interface {
	Insert(rec T) (T, error)
	List() []T
	Find(pred func(*T) bool) []T
	FindOne(pred func(*T) bool) *T
	Update(pred func(*T) bool, apply func(*T)) (*T, error)
	Remove(pred func(*T) bool) (*T, error)
}

// Settings is key-value access into the settings map, persisted through
// the same save path as the collections.
type Settings interface {
	// Get unmarshals the value stored under key into out and reports
	// whether the key was present.
	Get(key string, out interface{}) (bool, error)
	Set(key string, value interface{}) error
}

// Store exposes the durable collections required by services.
type Store interface {
	Load() error
	Save() error

	Inventory() Collection[model.InventoryItem]
	Transactions() Collection[model.Transaction]
	AuditLogs() Collection[model.AuditEntry]
	Usage() Collection[model.UsageHistory]
	Carts() Collection[model.Cart]
	Settings() Settings
}

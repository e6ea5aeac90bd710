// Package storage is the narrow adapter between the state layer and the
// concrete store implementations. It is pure delegation: the state store and
// the backup codec depend on the Store interface only, so the engine can be
// swapped without touching them.
package storage

import (
	"database/sql"

	"github.com/scancart/scancart/internal/model"
	"github.com/scancart/scancart/internal/store"
)

// Store is the persistence surface consumed by the state store and the backup
// codec.
type Store interface {
	// Seed applies first-run defaults: the category vocabulary, and a default
	// list marked current when no lists exist. Idempotent.
	Seed() error

	ListAll() ([]model.ShoppingList, error)
	ListCategories() ([]model.Category, error)

	CurrentListID() (string, error)
	SetCurrentListID(id string) error

	InsertList(list model.ShoppingList) error
	UpdateList(list model.ShoppingList) error
	DeleteList(id string) error

	InsertItem(listID string, item model.ShoppingItem) error
	UpdateItem(listID string, item model.ShoppingItem) error
	DeleteItem(listID, itemID string) error

	SearchItems(query, listID string) ([]model.ShoppingItem, error)

	WipeAll() error
	ReplaceAll(payload model.BackupPayload) error
}

// Facade implements Store over the SQLite-backed stores.
type Facade struct {
	shopping *store.ShoppingStore
	settings *store.SettingsStore
}

func New(db *sql.DB) *Facade {
	return &Facade{
		shopping: store.NewShoppingStore(db),
		settings: store.NewSettingsStore(db),
	}
}

func (f *Facade) Seed() error { return f.shopping.Seed() }

func (f *Facade) ListAll() ([]model.ShoppingList, error)      { return f.shopping.ListAll() }
func (f *Facade) ListCategories() ([]model.Category, error)   { return f.shopping.ListCategories() }
func (f *Facade) CurrentListID() (string, error)              { return f.settings.CurrentListID() }
func (f *Facade) SetCurrentListID(id string) error            { return f.settings.SetCurrentListID(id) }
func (f *Facade) InsertList(list model.ShoppingList) error    { return f.shopping.InsertList(list) }
func (f *Facade) UpdateList(list model.ShoppingList) error    { return f.shopping.UpdateList(list) }
func (f *Facade) DeleteList(id string) error                  { return f.shopping.DeleteList(id) }
func (f *Facade) WipeAll() error                              { return f.shopping.WipeAll() }
func (f *Facade) ReplaceAll(p model.BackupPayload) error      { return f.shopping.ReplaceAll(p) }
func (f *Facade) DeleteItem(listID, itemID string) error      { return f.shopping.DeleteItem(listID, itemID) }

func (f *Facade) InsertItem(listID string, item model.ShoppingItem) error {
	return f.shopping.InsertItem(listID, item)
}

func (f *Facade) UpdateItem(listID string, item model.ShoppingItem) error {
	return f.shopping.UpdateItem(listID, item)
}

func (f *Facade) SearchItems(query, listID string) ([]model.ShoppingItem, error) {
	return f.shopping.SearchItems(query, listID)
}

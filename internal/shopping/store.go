// Package shopping holds the in-memory source of truth for the UI: the list
// collection, the current-list pointer and a loading flag, kept consistent
// with persisted storage after every mutation.
package shopping

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scancart/scancart/internal/model"
	"github.com/scancart/scancart/internal/storage"
)

// Notifier is called after every successful mutation so connected UIs can
// resync. entity is "list" or "item"; action is "created", "updated" or
// "deleted".
type Notifier func(entity, action, id string)

// Store mirrors persisted storage in memory. Every mutation writes through to
// storage first and only then updates the mirror, under a single mutex, so one
// mutation completes as a whole before the next begins and a failed write
// leaves the mirror untouched.
//
// Write-error policy: AddList and AddItemToList return the storage error
// because callers need the new id or a reason they did not get one. All other
// mutations log failures and leave state unchanged. Operating on a missing
// current list or item is a silent no-op, not an error.
type Store struct {
	mu      sync.Mutex
	storage storage.Store
	logger  *slog.Logger
	notify  Notifier

	lists         []model.ShoppingList
	currentListID string
	loading       bool
	active        *model.ShoppingList
}

// New creates a Store over the given storage. notify may be nil.
func New(st storage.Store, logger *slog.Logger, notify Notifier) *Store {
	if notify == nil {
		notify = func(string, string, string) {}
	}
	return &Store{
		storage: st,
		logger:  logger,
		notify:  notify,
		loading: true,
	}
}

// Initialize loads the mirror from persisted storage, seeding a default list
// when storage is empty and defaulting the current pointer to the first list
// when it is unset. Errors are logged, not returned: startup degrades to an
// empty mirror rather than stranding the UI, and the loading flag is cleared
// on every path.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initializeLocked()
}

func (s *Store) initializeLocked() {
	s.loading = true
	defer func() { s.loading = false }()

	if err := s.storage.Seed(); err != nil {
		s.logger.Error("initialize: seed storage", "error", err)
		return
	}

	lists, err := s.storage.ListAll()
	if err != nil {
		s.logger.Error("initialize: load lists", "error", err)
		return
	}
	currentID, err := s.storage.CurrentListID()
	if err != nil {
		s.logger.Error("initialize: load current list id", "error", err)
		return
	}

	if len(lists) == 0 {
		now := time.Now().UTC()
		def := model.ShoppingList{
			ID:        uuid.NewString(),
			Name:      "My Shopping List",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.storage.InsertList(def); err != nil {
			s.logger.Error("initialize: create default list", "error", err)
			return
		}
		if err := s.storage.SetCurrentListID(def.ID); err != nil {
			s.logger.Error("initialize: set default current list", "error", err)
			return
		}
		s.lists = []model.ShoppingList{def}
		s.currentListID = def.ID
	} else {
		if currentID == "" {
			currentID = lists[0].ID
			if err := s.storage.SetCurrentListID(currentID); err != nil {
				s.logger.Error("initialize: persist current list", "error", err)
				return
			}
		}
		s.lists = lists
		s.currentListID = currentID
	}
	s.refreshActive()
}

// refreshActive recomputes the derived active-list cache. It must run after
// any change to lists or currentListID.
func (s *Store) refreshActive() {
	s.active = nil
	for i := range s.lists {
		if s.lists[i].ID == s.currentListID {
			l := copyList(s.lists[i])
			s.active = &l
			return
		}
	}
}

// AddList creates and persists a new empty list and returns its id. The
// current-list pointer is not changed. Storage failures are returned to the
// caller.
func (s *Store) AddList(name string, isMealPlan bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	list := model.ShoppingList{
		ID:         uuid.NewString(),
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
		IsMealPlan: isMealPlan,
	}
	if err := s.storage.InsertList(list); err != nil {
		return "", fmt.Errorf("add list: %w", err)
	}

	// The mirror keeps lists newest-first, matching storage order.
	s.lists = append([]model.ShoppingList{list}, s.lists...)
	s.refreshActive()
	s.notify("list", "created", list.ID)
	return list.ID, nil
}

// UpdateListName renames a list. A missing list is a silent no-op.
func (s *Store) UpdateListName(listID, newName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findList(listID)
	if idx < 0 {
		return
	}

	updated := s.lists[idx]
	updated.Name = newName
	updated.UpdatedAt = time.Now().UTC()
	if err := s.storage.UpdateList(updated); err != nil {
		s.logger.Error("update list name", "list_id", listID, "error", err)
		return
	}

	s.lists[idx] = updated
	s.refreshActive()
	s.notify("list", "updated", listID)
}

// DeleteList removes a list and its items. If the deleted list was current,
// the first remaining list becomes current (or none, if no lists remain) and
// that choice is persisted.
func (s *Store) DeleteList(listID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.DeleteList(listID); err != nil {
		s.logger.Error("delete list", "list_id", listID, "error", err)
		return
	}

	remaining := s.lists[:0:0]
	for _, l := range s.lists {
		if l.ID != listID {
			remaining = append(remaining, l)
		}
	}
	s.lists = remaining

	if s.currentListID == listID {
		s.currentListID = ""
		if len(s.lists) > 0 {
			s.currentListID = s.lists[0].ID
		}
		if s.currentListID != "" {
			if err := s.storage.SetCurrentListID(s.currentListID); err != nil {
				s.logger.Error("delete list: persist new current", "error", err)
			}
		}
	}
	s.refreshActive()
	s.notify("list", "deleted", listID)
}

// SetCurrentList repoints the active list. The id is accepted without
// checking it against known lists, mirroring the storage layer's laxness; an
// unknown id simply yields a nil active list.
func (s *Store) SetCurrentList(listID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SetCurrentListID(listID); err != nil {
		s.logger.Error("set current list", "list_id", listID, "error", err)
		return
	}
	s.currentListID = listID
	s.refreshActive()
	s.notify("list", "selected", listID)
}

// AddItemToCurrentList adds an item to the active list. Without a current
// list it silently does nothing; storage failures are logged and swallowed.
func (s *Store) AddItemToCurrentList(item model.ShoppingItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentListID == "" {
		return
	}
	if _, err := s.addItemLocked(s.currentListID, item); err != nil {
		s.logger.Error("add item to current list", "error", err)
	}
}

// AddItemToList adds an item to the named list and returns the generated item
// id. Unlike the current-list variant, storage failures propagate: callers in
// multi-step flows (scan, then create list, then populate) must be able to
// abort.
func (s *Store) AddItemToList(listID string, item model.ShoppingItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addItemLocked(listID, item)
}

func (s *Store) addItemLocked(listID string, item model.ShoppingItem) (string, error) {
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	if item.Quantity == nil {
		one := 1.0
		item.Quantity = &one
	}
	if item.Category == "" {
		item.Category = model.CategoryOther
	}

	if err := s.storage.InsertItem(listID, item); err != nil {
		return "", fmt.Errorf("add item: %w", err)
	}

	if idx := s.findList(listID); idx >= 0 {
		s.lists[idx].Items = append(s.lists[idx].Items, item)
		s.lists[idx].UpdatedAt = time.Now().UTC()
	}
	s.refreshActive()
	s.notify("item", "created", item.ID)
	return item.ID, nil
}

// UpdateItemInCurrentList merges the partial update onto the item in the
// active list. Missing current list or item is a silent no-op.
func (s *Store) UpdateItemInCurrentList(itemID string, upd model.ItemUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateItemLocked(itemID, upd)
}

func (s *Store) updateItemLocked(itemID string, upd model.ItemUpdate) {
	idx := s.findList(s.currentListID)
	if idx < 0 {
		return
	}
	itemIdx := -1
	for i := range s.lists[idx].Items {
		if s.lists[idx].Items[i].ID == itemID {
			itemIdx = i
			break
		}
	}
	if itemIdx < 0 {
		return
	}

	merged := upd.Apply(s.lists[idx].Items[itemIdx])
	if err := s.storage.UpdateItem(s.currentListID, merged); err != nil {
		s.logger.Error("update item", "item_id", itemID, "error", err)
		return
	}

	s.lists[idx].Items[itemIdx] = merged
	s.lists[idx].UpdatedAt = time.Now().UTC()
	s.refreshActive()
	s.notify("item", "updated", itemID)
}

// RemoveItemFromCurrentList deletes an item from the active list. Without a
// current list it silently does nothing.
func (s *Store) RemoveItemFromCurrentList(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentListID == "" {
		return
	}
	if err := s.storage.DeleteItem(s.currentListID, itemID); err != nil {
		s.logger.Error("remove item", "item_id", itemID, "error", err)
		return
	}

	if idx := s.findList(s.currentListID); idx >= 0 {
		items := s.lists[idx].Items[:0:0]
		for _, it := range s.lists[idx].Items {
			if it.ID != itemID {
				items = append(items, it)
			}
		}
		s.lists[idx].Items = items
		s.lists[idx].UpdatedAt = time.Now().UTC()
	}
	s.refreshActive()
	s.notify("item", "deleted", itemID)
}

// ToggleItemCompletion flips an item's completion state, stamping completed_at
// when it becomes complete and clearing it when it reverts.
func (s *Store) ToggleItemCompletion(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findList(s.currentListID)
	if idx < 0 {
		return
	}
	for i := range s.lists[idx].Items {
		if s.lists[idx].Items[i].ID != itemID {
			continue
		}
		completed := !s.lists[idx].Items[i].IsCompleted
		upd := model.ItemUpdate{IsCompleted: &completed}
		if completed {
			now := time.Now().UTC()
			upd.CompletedAt = &now
		} else {
			upd.ClearCompletedAt = true
		}
		s.updateItemLocked(itemID, upd)
		return
	}
}

// SearchItems searches the active list by name, case-insensitively. Failures
// yield an empty result, never an error.
func (s *Store) SearchItems(query string) []model.ShoppingItem {
	s.mu.Lock()
	listID := s.currentListID
	s.mu.Unlock()

	items, err := s.storage.SearchItems(query, listID)
	if err != nil {
		s.logger.Error("search items", "query", query, "error", err)
		return []model.ShoppingItem{}
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	return items
}

// ClearStorage wipes all persisted data, resets the mirror, and reinitializes
// so a fresh default list exists afterward.
func (s *Store) ClearStorage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.WipeAll(); err != nil {
		s.logger.Error("clear storage", "error", err)
		return
	}
	s.lists = nil
	s.currentListID = ""
	s.active = nil
	s.initializeLocked()
	s.notify("list", "reset", "")
}

// CurrentList derives the active list on demand from the mirror. Equivalent
// to ActiveList but recomputed rather than cached.
func (s *Store) CurrentList() *model.ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lists {
		if s.lists[i].ID == s.currentListID {
			l := copyList(s.lists[i])
			return &l
		}
	}
	return nil
}

// Lists returns a copy of the list collection, newest-first.
func (s *Store) Lists() []model.ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ShoppingList, len(s.lists))
	for i := range s.lists {
		out[i] = copyList(s.lists[i])
	}
	return out
}

// CurrentListID returns the active list pointer, or "" if none.
func (s *Store) CurrentListID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentListID
}

// ActiveList returns the cached derived active list, or nil.
func (s *Store) ActiveList() *model.ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}
	l := copyList(*s.active)
	return &l
}

// Loading reports whether initialization is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) findList(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.lists {
		if s.lists[i].ID == id {
			return i
		}
	}
	return -1
}

func copyList(l model.ShoppingList) model.ShoppingList {
	items := make([]model.ShoppingItem, len(l.Items))
	copy(items, l.Items)
	l.Items = items
	return l
}

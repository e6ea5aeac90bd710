package store

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/scancart/scancart/internal/database"
	"github.com/scancart/scancart/internal/model"
)

func setupShoppingTestDB(t *testing.T) (*ShoppingStore, *SettingsStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewShoppingStore(db), NewSettingsStore(db)
}

func makeList(name string) model.ShoppingList {
	now := time.Now().UTC()
	return model.ShoppingList{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func makeItem(name string) model.ShoppingItem {
	qty := 1.0
	return model.ShoppingItem{
		ID:        uuid.NewString(),
		Name:      name,
		Quantity:  &qty,
		Category:  model.CategoryOther,
		CreatedAt: time.Now().UTC(),
	}
}

func TestSeed(t *testing.T) {
	ss, set := setupShoppingTestDB(t)

	if err := ss.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	categories, err := ss.ListCategories()
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != len(defaultCategories) {
		t.Errorf("categories = %d, want %d", len(categories), len(defaultCategories))
	}

	lists, err := ss.ListAll()
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("expected 1 seeded list, got %d", len(lists))
	}
	if lists[0].Name != DefaultListName {
		t.Errorf("name = %q, want %q", lists[0].Name, DefaultListName)
	}

	current, err := set.CurrentListID()
	if err != nil {
		t.Fatalf("current list id: %v", err)
	}
	if current != lists[0].ID {
		t.Errorf("current = %q, want %q", current, lists[0].ID)
	}
}

func TestSeedIdempotent(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	if err := ss.Seed(); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := ss.Seed(); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	count, err := ss.CountLists()
	if err != nil {
		t.Fatalf("count lists: %v", err)
	}
	if count != 1 {
		t.Errorf("lists = %d, want 1", count)
	}

	categories, _ := ss.ListCategories()
	if len(categories) != len(defaultCategories) {
		t.Errorf("categories = %d, want %d", len(categories), len(defaultCategories))
	}
}

func TestSeedSkipsDefaultListWhenListsExist(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	if err := ss.InsertList(makeList("Existing")); err != nil {
		t.Fatalf("insert list: %v", err)
	}
	if err := ss.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	count, _ := ss.CountLists()
	if count != 1 {
		t.Errorf("lists = %d, want 1 (no default added)", count)
	}
}

func TestListCRUD(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	list := makeList("Groceries")
	if err := ss.InsertList(list); err != nil {
		t.Fatalf("insert list: %v", err)
	}

	got, err := ss.GetList(list.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if got == nil {
		t.Fatal("expected list, got nil")
	}
	if got.Name != "Groceries" {
		t.Errorf("name = %q, want %q", got.Name, "Groceries")
	}
	if got.IsTemplate || got.IsMealPlan {
		t.Error("expected flags to be false")
	}
	if len(got.Items) != 0 {
		t.Errorf("items = %d, want 0", len(got.Items))
	}

	list.Name = "Weekly Groceries"
	list.IsMealPlan = true
	list.UpdatedAt = time.Now().UTC()
	if err := ss.UpdateList(list); err != nil {
		t.Fatalf("update list: %v", err)
	}
	got, _ = ss.GetList(list.ID)
	if got.Name != "Weekly Groceries" {
		t.Errorf("name = %q, want %q", got.Name, "Weekly Groceries")
	}
	if !got.IsMealPlan {
		t.Error("expected is_meal_plan true")
	}

	if err := ss.DeleteList(list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	got, err = ss.GetList(list.ID)
	if err != nil {
		t.Fatalf("get deleted list: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestGetListNotFound(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	got, err := ss.GetList("missing")
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if got != nil {
		t.Error("expected nil for non-existent list")
	}
}

func TestListAllOrderingAndHydration(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	older := makeList("Older")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := makeList("Newer")
	ss.InsertList(older)
	ss.InsertList(newer)

	first := makeItem("Milk")
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	second := makeItem("Eggs")
	ss.InsertItem(older.ID, first)
	ss.InsertItem(older.ID, second)

	lists, err := ss.ListAll()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	if lists[0].Name != "Newer" || lists[1].Name != "Older" {
		t.Errorf("order = [%q, %q], want newest first", lists[0].Name, lists[1].Name)
	}
	if len(lists[1].Items) != 2 {
		t.Fatalf("expected 2 items on older list, got %d", len(lists[1].Items))
	}
	if lists[1].Items[0].Name != "Milk" || lists[1].Items[1].Name != "Eggs" {
		t.Errorf("items in creation order, got [%q, %q]", lists[1].Items[0].Name, lists[1].Items[1].Name)
	}
}

func TestItemCRUD(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	list := makeList("Groceries")
	ss.InsertList(list)

	item := makeItem("Bananas")
	unit := "kg"
	notes := "ripe ones"
	item.Unit = &unit
	item.Notes = &notes
	item.Category = "produce"
	if err := ss.InsertItem(list.ID, item); err != nil {
		t.Fatalf("insert item: %v", err)
	}

	items, err := ss.ListItems(list.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	got := items[0]
	if got.Name != "Bananas" {
		t.Errorf("name = %q, want %q", got.Name, "Bananas")
	}
	if got.Quantity == nil || *got.Quantity != 1.0 {
		t.Errorf("quantity = %v, want 1.0", got.Quantity)
	}
	if got.Unit == nil || *got.Unit != "kg" {
		t.Errorf("unit = %v, want kg", got.Unit)
	}
	if got.Notes == nil || *got.Notes != "ripe ones" {
		t.Errorf("notes = %v, want %q", got.Notes, "ripe ones")
	}
	if got.Category != "produce" {
		t.Errorf("category = %q, want produce", got.Category)
	}
	if got.IsCompleted || got.CompletedAt != nil {
		t.Error("expected not completed")
	}

	completedAt := time.Now().UTC()
	got.IsCompleted = true
	got.CompletedAt = &completedAt
	if err := ss.UpdateItem(list.ID, got); err != nil {
		t.Fatalf("update item: %v", err)
	}
	items, _ = ss.ListItems(list.ID)
	if !items[0].IsCompleted {
		t.Error("expected completed after update")
	}
	if items[0].CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}

	if err := ss.DeleteItem(list.ID, got.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	items, _ = ss.ListItems(list.ID)
	if len(items) != 0 {
		t.Errorf("expected 0 items after delete, got %d", len(items))
	}
}

func TestItemMutationsTouchList(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	list := makeList("Groceries")
	list.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	ss.InsertList(list)

	if err := ss.InsertItem(list.ID, makeItem("Milk")); err != nil {
		t.Fatalf("insert item: %v", err)
	}

	got, _ := ss.GetList(list.ID)
	if !got.UpdatedAt.After(list.UpdatedAt) {
		t.Errorf("updated_at = %v, want after %v", got.UpdatedAt, list.UpdatedAt)
	}
}

func TestDeleteListCascadesItems(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	list := makeList("Groceries")
	ss.InsertList(list)
	item := makeItem("Milk")
	ss.InsertItem(list.ID, item)

	if err := ss.DeleteList(list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}

	items, err := ss.SearchItems("Milk", "")
	if err != nil {
		t.Fatalf("search items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected cascade to remove items, found %d", len(items))
	}
}

func TestSearchItems(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	listA := makeList("A")
	listB := makeList("B")
	ss.InsertList(listA)
	ss.InsertList(listB)

	ss.InsertItem(listA.ID, makeItem("Whole Milk"))
	ss.InsertItem(listA.ID, makeItem("Eggs"))
	ss.InsertItem(listB.ID, makeItem("Oat milk"))

	// Case-insensitive substring match across all lists
	items, err := ss.SearchItems("milk", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(items))
	}

	// Scoped to one list
	items, err = ss.SearchItems("milk", listB.ID)
	if err != nil {
		t.Fatalf("scoped search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 match, got %d", len(items))
	}
	if items[0].Name != "Oat milk" {
		t.Errorf("name = %q, want %q", items[0].Name, "Oat milk")
	}

	// No match
	items, _ = ss.SearchItems("caviar", "")
	if len(items) != 0 {
		t.Errorf("expected 0 matches, got %d", len(items))
	}
}

func TestSearchItemsLimit(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	list := makeList("Big")
	ss.InsertList(list)
	for i := 0; i < 60; i++ {
		item := makeItem("Apple " + strings.Repeat("x", i%5))
		ss.InsertItem(list.ID, item)
	}

	items, err := ss.SearchItems("Apple", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 50 {
		t.Errorf("expected 50 results, got %d", len(items))
	}
}

func TestWipeAll(t *testing.T) {
	ss, set := setupShoppingTestDB(t)

	if err := ss.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	extra := makeList("Extra")
	ss.InsertList(extra)
	ss.InsertItem(extra.ID, makeItem("Milk"))
	set.Set("some_key", "some_value")

	if err := ss.WipeAll(); err != nil {
		t.Fatalf("wipe: %v", err)
	}

	lists, err := ss.ListAll()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("expected reseeded default list, got %d lists", len(lists))
	}
	if lists[0].Name != DefaultListName {
		t.Errorf("name = %q, want %q", lists[0].Name, DefaultListName)
	}

	value, _ := set.Get("some_key")
	if value != "" {
		t.Errorf("expected settings wiped, got %q", value)
	}

	current, _ := set.CurrentListID()
	if current != lists[0].ID {
		t.Errorf("current = %q, want reseeded list %q", current, lists[0].ID)
	}
}

func TestReplaceAll(t *testing.T) {
	ss, set := setupShoppingTestDB(t)

	if err := ss.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	qty := 2.0
	unit := "l"
	listID := uuid.NewString()
	itemID := uuid.NewString()
	completedAt := "2026-01-02T10:00:00.000Z"
	payload := model.BackupPayload{
		Version:       model.BackupVersion,
		ExportedAt:    "2026-01-02T12:00:00.000Z",
		CurrentListID: &listID,
		Lists: []model.BackupList{
			{
				ID:        listID,
				Name:      "Restored",
				CreatedAt: "2026-01-01T08:00:00.000Z",
				UpdatedAt: "2026-01-02T09:00:00.000Z",
				Items: []model.BackupItem{
					{
						ID:          itemID,
						Name:        "Milk",
						Quantity:    &qty,
						Unit:        &unit,
						Category:    "dairy",
						IsCompleted: true,
						CreatedAt:   "2026-01-01T08:30:00.000Z",
						CompletedAt: &completedAt,
					},
				},
			},
		},
	}

	if err := ss.ReplaceAll(payload); err != nil {
		t.Fatalf("replace all: %v", err)
	}

	lists, err := ss.ListAll()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("expected 1 list, got %d", len(lists))
	}
	if lists[0].ID != listID || lists[0].Name != "Restored" {
		t.Errorf("list = %q/%q, want restored list", lists[0].ID, lists[0].Name)
	}
	if len(lists[0].Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(lists[0].Items))
	}
	item := lists[0].Items[0]
	if item.ID != itemID || item.Name != "Milk" || item.Category != "dairy" {
		t.Errorf("item = %+v, want restored milk", item)
	}
	if !item.IsCompleted || item.CompletedAt == nil {
		t.Error("expected completed item with timestamp")
	}
	if item.Quantity == nil || *item.Quantity != 2.0 {
		t.Errorf("quantity = %v, want 2.0", item.Quantity)
	}

	current, _ := set.CurrentListID()
	if current != listID {
		t.Errorf("current = %q, want %q", current, listID)
	}

	// Categories survive a restore
	categories, _ := ss.ListCategories()
	if len(categories) != len(defaultCategories) {
		t.Errorf("categories = %d, want %d", len(categories), len(defaultCategories))
	}
}

func TestReplaceAllWithoutCurrentList(t *testing.T) {
	ss, set := setupShoppingTestDB(t)

	if err := ss.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	payload := model.BackupPayload{
		Version:    model.BackupVersion,
		ExportedAt: "2026-01-02T12:00:00.000Z",
		Lists: []model.BackupList{
			{
				ID:        uuid.NewString(),
				Name:      "Only",
				CreatedAt: "2026-01-01T08:00:00.000Z",
				UpdatedAt: "2026-01-01T08:00:00.000Z",
			},
		},
	}
	if err := ss.ReplaceAll(payload); err != nil {
		t.Fatalf("replace all: %v", err)
	}

	current, err := set.CurrentListID()
	if err != nil {
		t.Fatalf("current list id: %v", err)
	}
	if current != "" {
		t.Errorf("current = %q, want empty", current)
	}
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scancart/scancart/internal/model"
)

func encodeTime(t time.Time) string {
	return model.FormatTime(t)
}

func decodeTime(s string) (time.Time, error) {
	return model.ParseTime(s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// DefaultListName is the name of the list seeded into empty storage.
const DefaultListName = "My Shopping List"

// CurrentListKey is the app_settings key tracking the active list.
const CurrentListKey = "current_list_id"

// defaultCategories is the fixed category vocabulary seeded at first run.
var defaultCategories = []model.Category{
	{ID: "produce", Name: "Produce", Icon: "leaf-outline"},
	{ID: "dairy", Name: "Dairy", Icon: "water-outline"},
	{ID: "meat", Name: "Meat & Seafood", Icon: "fish-outline"},
	{ID: "pantry", Name: "Pantry", Icon: "archive-outline"},
	{ID: "frozen", Name: "Frozen", Icon: "snow-outline"},
	{ID: "bakery", Name: "Bakery", Icon: "restaurant-outline"},
	{ID: "snacks", Name: "Snacks", Icon: "fast-food-outline"},
	{ID: "beverages", Name: "Beverages", Icon: "wine-outline"},
	{ID: "household", Name: "Household", Icon: "home-outline"},
	{ID: "personal", Name: "Personal Care", Icon: "medical-outline"},
	{ID: "other", Name: "Other", Icon: "ellipsis-horizontal-outline"},
}

// ShoppingStore owns durable CRUD over lists, items and categories. It has no
// knowledge of in-memory state; partial writes are not rolled back unless the
// method documents a transaction.
type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

// Seed populates the category vocabulary and, when no lists exist at all, a
// single default list marked current. Safe to call repeatedly.
func (s *ShoppingStore) Seed() error {
	var categoryCount int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&categoryCount); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if categoryCount == 0 {
		for _, c := range defaultCategories {
			_, err := s.db.Exec(
				`INSERT INTO categories (id, name, icon, is_custom) VALUES (?, ?, ?, ?)`,
				c.ID, c.Name, c.Icon, boolToInt(c.IsCustom),
			)
			if err != nil {
				return fmt.Errorf("seed category %q: %w", c.ID, err)
			}
		}
	}

	listCount, err := s.CountLists()
	if err != nil {
		return err
	}
	if listCount == 0 {
		now := time.Now().UTC()
		list := model.ShoppingList{
			ID:        uuid.NewString(),
			Name:      DefaultListName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.InsertList(list); err != nil {
			return fmt.Errorf("seed default list: %w", err)
		}
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO app_settings (key, value) VALUES (?, ?)`,
			CurrentListKey, list.ID,
		)
		if err != nil {
			return fmt.Errorf("seed current list: %w", err)
		}
	}
	return nil
}

// --- Category methods ---

func (s *ShoppingStore) ListCategories() ([]model.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, icon, is_custom FROM categories ORDER BY is_custom ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var custom int
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &custom); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.IsCustom = custom != 0
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// --- List methods ---

const listCols = `id, name, created_at, updated_at, is_template, is_meal_plan`

func scanList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var createdAt, updatedAt string
	var template, mealPlan int

	err := scanner.Scan(&l.ID, &l.Name, &createdAt, &updatedAt, &template, &mealPlan)
	if err != nil {
		return nil, err
	}

	if l.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	l.IsTemplate = template != 0
	l.IsMealPlan = mealPlan != 0
	return &l, nil
}

// ListAll returns all lists ordered by creation time descending, each fully
// hydrated with its items in creation order.
func (s *ShoppingStore) ListAll() ([]model.ShoppingList, error) {
	rows, err := s.db.Query(`SELECT ` + listCols + ` FROM shopping_lists ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		items, err := s.ListItems(lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}
	return lists, nil
}

// GetList returns a single hydrated list, or nil if it does not exist.
func (s *ShoppingStore) GetList(id string) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	items, err := s.ListItems(l.ID)
	if err != nil {
		return nil, err
	}
	l.Items = items
	return l, nil
}

func (s *ShoppingStore) CountLists() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM shopping_lists`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count lists: %w", err)
	}
	return count, nil
}

func (s *ShoppingStore) InsertList(list model.ShoppingList) error {
	_, err := s.db.Exec(
		`INSERT INTO shopping_lists (id, name, created_at, updated_at, is_template, is_meal_plan) VALUES (?, ?, ?, ?, ?, ?)`,
		list.ID, list.Name, encodeTime(list.CreatedAt), encodeTime(list.UpdatedAt),
		boolToInt(list.IsTemplate), boolToInt(list.IsMealPlan),
	)
	if err != nil {
		return fmt.Errorf("insert list: %w", err)
	}
	return nil
}

// UpdateList persists the list's name, flags and updated_at. Items are not
// touched.
func (s *ShoppingStore) UpdateList(list model.ShoppingList) error {
	_, err := s.db.Exec(
		`UPDATE shopping_lists SET name = ?, updated_at = ?, is_template = ?, is_meal_plan = ? WHERE id = ?`,
		list.Name, encodeTime(list.UpdatedAt), boolToInt(list.IsTemplate), boolToInt(list.IsMealPlan), list.ID,
	)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	return nil
}

// DeleteList removes the list; its items go with it via the foreign key
// cascade.
func (s *ShoppingStore) DeleteList(id string) error {
	_, err := s.db.Exec(`DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// --- Item methods ---

const itemCols = `id, name, quantity, unit, category, notes, barcode, is_completed, created_at, completed_at`

func scanItem(scanner interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var quantity sql.NullFloat64
	var unit, notes, barcode, completedAt sql.NullString
	var completed int
	var createdAt string

	err := scanner.Scan(
		&item.ID, &item.Name, &quantity, &unit, &item.Category, &notes,
		&barcode, &completed, &createdAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if quantity.Valid {
		item.Quantity = &quantity.Float64
	}
	if unit.Valid {
		item.Unit = &unit.String
	}
	if notes.Valid {
		item.Notes = &notes.String
	}
	if barcode.Valid {
		item.Barcode = &barcode.String
	}
	item.IsCompleted = completed != 0
	if item.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t, err := decodeTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		item.CompletedAt = &t
	}
	return &item, nil
}

// ListItems returns the items of one list in creation order.
func (s *ShoppingStore) ListItems(listID string) ([]model.ShoppingItem, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM shopping_items WHERE list_id = ? ORDER BY created_at ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return encodeTime(*t)
}

// InsertItem adds the item to the given list and refreshes the parent list's
// updated_at.
func (s *ShoppingStore) InsertItem(listID string, item model.ShoppingItem) error {
	_, err := s.db.Exec(
		`INSERT INTO shopping_items (id, list_id, `+itemCols[4:]+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, listID, item.Name, item.Quantity, item.Unit, item.Category,
		item.Notes, item.Barcode, boolToInt(item.IsCompleted),
		encodeTime(item.CreatedAt), nullTime(item.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return s.touchList(listID)
}

// UpdateItem rewrites the item's mutable fields and refreshes the parent
// list's updated_at. The created_at column is never changed.
func (s *ShoppingStore) UpdateItem(listID string, item model.ShoppingItem) error {
	_, err := s.db.Exec(
		`UPDATE shopping_items
		 SET name = ?, quantity = ?, unit = ?, category = ?, notes = ?, barcode = ?, is_completed = ?, completed_at = ?
		 WHERE id = ? AND list_id = ?`,
		item.Name, item.Quantity, item.Unit, item.Category, item.Notes,
		item.Barcode, boolToInt(item.IsCompleted), nullTime(item.CompletedAt),
		item.ID, listID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return s.touchList(listID)
}

// DeleteItem removes the item and refreshes the parent list's updated_at.
func (s *ShoppingStore) DeleteItem(listID, itemID string) error {
	_, err := s.db.Exec(`DELETE FROM shopping_items WHERE id = ? AND list_id = ?`, itemID, listID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return s.touchList(listID)
}

func (s *ShoppingStore) touchList(listID string) error {
	_, err := s.db.Exec(
		`UPDATE shopping_lists SET updated_at = ? WHERE id = ?`,
		encodeTime(time.Now()), listID,
	)
	if err != nil {
		return fmt.Errorf("touch list: %w", err)
	}
	return nil
}

// SearchItems finds items whose name contains the query, case-insensitively,
// optionally scoped to one list. Results are newest-first, capped at 50.
func (s *ShoppingStore) SearchItems(query, listID string) ([]model.ShoppingItem, error) {
	sqlStr := `SELECT ` + itemCols + ` FROM shopping_items WHERE name LIKE ?`
	args := []any{"%" + query + "%"}

	if listID != "" {
		sqlStr += ` AND list_id = ?`
		args = append(args, listID)
	}
	sqlStr += ` ORDER BY created_at DESC LIMIT 50`

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// WipeAll deletes every row from every table in one transaction, then reseeds
// the defaults. Factory reset.
func (s *ShoppingStore) WipeAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin wipe: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"shopping_items", "shopping_lists", "app_settings", "categories"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("wipe %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit wipe: %w", err)
	}

	return s.Seed()
}

// ReplaceAll swaps the entire persisted state for the contents of a backup
// payload in a single transaction: nothing is applied if any row fails.
// Category reference data is left in place.
func (s *ShoppingStore) ReplaceAll(payload model.BackupPayload) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin restore: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"shopping_items", "shopping_lists", "app_settings"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, l := range payload.Lists {
		if _, err := tx.Exec(
			`INSERT INTO shopping_lists (id, name, created_at, updated_at, is_template, is_meal_plan) VALUES (?, ?, ?, ?, ?, ?)`,
			l.ID, l.Name, l.CreatedAt, l.UpdatedAt, boolToInt(l.IsTemplate), boolToInt(l.IsMealPlan),
		); err != nil {
			return fmt.Errorf("restore list %q: %w", l.ID, err)
		}
		for _, item := range l.Items {
			var completedAt any
			if item.CompletedAt != nil {
				completedAt = *item.CompletedAt
			}
			if _, err := tx.Exec(
				`INSERT INTO shopping_items (id, list_id, `+itemCols[4:]+`)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				item.ID, l.ID, item.Name, item.Quantity, item.Unit, item.Category,
				item.Notes, item.Barcode, boolToInt(item.IsCompleted),
				item.CreatedAt, completedAt,
			); err != nil {
				return fmt.Errorf("restore item %q: %w", item.ID, err)
			}
		}
	}

	if payload.CurrentListID != nil {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO app_settings (key, value) VALUES (?, ?)`,
			CurrentListKey, *payload.CurrentListID,
		); err != nil {
			return fmt.Errorf("restore current list: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restore: %w", err)
	}
	return nil
}

package store

import (
	"testing"

	"github.com/scancart/scancart/internal/database"
)

func setupSettingsTestDB(t *testing.T) *SettingsStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSettingsStore(db)
}

func TestSettingsGetSet(t *testing.T) {
	st := setupSettingsTestDB(t)

	// Missing key is empty string, not an error
	value, err := st.Get("missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if value != "" {
		t.Errorf("value = %q, want empty", value)
	}

	if err := st.Set("theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err = st.Get("theme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "dark" {
		t.Errorf("value = %q, want %q", value, "dark")
	}

	// Upsert
	if err := st.Set("theme", "light"); err != nil {
		t.Fatalf("set again: %v", err)
	}
	value, _ = st.Get("theme")
	if value != "light" {
		t.Errorf("value = %q, want %q", value, "light")
	}
}

func TestSettingsDelete(t *testing.T) {
	st := setupSettingsTestDB(t)

	st.Set("key", "value")
	if err := st.Delete("key"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	value, _ := st.Get("key")
	if value != "" {
		t.Errorf("value = %q, want empty after delete", value)
	}

	// Deleting an absent key is fine
	if err := st.Delete("never-existed"); err != nil {
		t.Errorf("delete absent: %v", err)
	}
}

func TestCurrentListID(t *testing.T) {
	st := setupSettingsTestDB(t)

	current, err := st.CurrentListID()
	if err != nil {
		t.Fatalf("current list id: %v", err)
	}
	if current != "" {
		t.Errorf("current = %q, want empty", current)
	}

	if err := st.SetCurrentListID("list-123"); err != nil {
		t.Fatalf("set current: %v", err)
	}
	current, _ = st.CurrentListID()
	if current != "list-123" {
		t.Errorf("current = %q, want %q", current, "list-123")
	}
}

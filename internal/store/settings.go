package store

import (
	"database/sql"
	"fmt"
)

// SettingsStore reads and writes the app_settings key/value table.
type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the value for key, or "" if the key is not set.
func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// Set upserts the value for key.
func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *SettingsStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM app_settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	return nil
}

// CurrentListID returns the active list pointer, or "" if none is set.
func (s *SettingsStore) CurrentListID() (string, error) {
	return s.Get(CurrentListKey)
}

// SetCurrentListID upserts the active list pointer. The id is not checked
// against the lists table; that is the caller's responsibility.
func (s *SettingsStore) SetCurrentListID(id string) error {
	return s.Set(CurrentListKey, id)
}

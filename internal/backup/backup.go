// Package backup exports the entire persisted state to a versioned JSON
// document and restores from one, bypassing the state store's incremental
// methods. After a restore the caller must reinitialize the state store to
// resynchronize the in-memory mirror.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scancart/scancart/internal/model"
	"github.com/scancart/scancart/internal/storage"
)

// Validation faults. All are user-facing and descriptive; none leaves a
// partially applied restore behind.
var (
	ErrInvalidJSON         = errors.New("backup file is not valid JSON")
	ErrIncompatibleVersion = errors.New("backup was created with an incompatible app version")
	ErrMissingLists        = errors.New("backup file is missing list data")
	ErrPassphraseRequired  = errors.New("backup file is encrypted and no passphrase is configured")
)

// Result describes a created backup file.
type Result struct {
	Path      string `json:"path"`
	FileName  string `json:"file_name"`
	ListCount int    `json:"list_count"`
	ItemCount int    `json:"item_count"`
}

// Summary describes a completed restore.
type Summary struct {
	ListCount int `json:"list_count"`
	ItemCount int `json:"item_count"`
}

// Codec reads and writes backup documents against a storage facade. With a
// passphrase set, created files are encrypted and encrypted files can be
// restored.
type Codec struct {
	storage    storage.Store
	dir        string
	passphrase string
	logger     *slog.Logger
}

func NewCodec(st storage.Store, dir, passphrase string, logger *slog.Logger) *Codec {
	return &Codec{storage: st, dir: dir, passphrase: passphrase, logger: logger}
}

// encryptedExt marks encrypted backup files.
const encryptedExt = ".enc"

// Create serializes all lists and the current-list pointer to a uniquely
// named file in the codec's directory and returns its location and counts.
func (c *Codec) Create() (Result, error) {
	payload, err := c.BuildPayload()
	if err != nil {
		return Result{}, err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encode backup: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("no writable backup location: %w", err)
	}

	fileName := fmt.Sprintf("scancart-backup-%s.json", time.Now().Format("20060102-150405"))
	if c.passphrase != "" {
		salt, err := GenerateSalt()
		if err != nil {
			return Result{}, err
		}
		data, err = Encrypt(data, c.passphrase, salt)
		if err != nil {
			return Result{}, err
		}
		fileName += encryptedExt
	}

	path := filepath.Join(c.dir, fileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Result{}, fmt.Errorf("write backup file: %w", err)
	}

	c.logger.Info("backup created", "path", path, "lists", len(payload.Lists), "items", payload.ItemCount())
	return Result{
		Path:      path,
		FileName:  fileName,
		ListCount: len(payload.Lists),
		ItemCount: payload.ItemCount(),
	}, nil
}

// BuildPayload snapshots persisted state into a version-1 document. Optional
// fields become explicit nulls so the document round-trips stably.
func (c *Codec) BuildPayload() (model.BackupPayload, error) {
	lists, err := c.storage.ListAll()
	if err != nil {
		return model.BackupPayload{}, fmt.Errorf("read lists: %w", err)
	}
	currentID, err := c.storage.CurrentListID()
	if err != nil {
		return model.BackupPayload{}, fmt.Errorf("read current list id: %w", err)
	}

	payload := model.BackupPayload{
		Version:    model.BackupVersion,
		ExportedAt: model.FormatTime(time.Now()),
		Lists:      make([]model.BackupList, 0, len(lists)),
	}
	if currentID != "" {
		payload.CurrentListID = &currentID
	}

	for _, l := range lists {
		bl := model.BackupList{
			ID:         l.ID,
			Name:       l.Name,
			CreatedAt:  model.FormatTime(l.CreatedAt),
			UpdatedAt:  model.FormatTime(l.UpdatedAt),
			IsTemplate: l.IsTemplate,
			IsMealPlan: l.IsMealPlan,
			Items:      make([]model.BackupItem, 0, len(l.Items)),
		}
		for _, item := range l.Items {
			bi := model.BackupItem{
				ID:          item.ID,
				Name:        item.Name,
				Quantity:    item.Quantity,
				Unit:        item.Unit,
				Category:    item.Category,
				Notes:       item.Notes,
				Barcode:     item.Barcode,
				IsCompleted: item.IsCompleted,
				CreatedAt:   model.FormatTime(item.CreatedAt),
			}
			if item.CompletedAt != nil {
				s := model.FormatTime(*item.CompletedAt)
				bi.CompletedAt = &s
			}
			bl.Items = append(bl.Items, bi)
		}
		payload.Lists = append(payload.Lists, bl)
	}
	return payload, nil
}

// RestoreFromFile replaces all persisted state with the document at path. The
// document is validated before anything is touched; the replacement itself
// runs in one storage transaction.
func (c *Codec) RestoreFromFile(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read backup file: %w", err)
	}

	if strings.HasSuffix(path, encryptedExt) {
		if c.passphrase == "" {
			return Summary{}, ErrPassphraseRequired
		}
		data, err = Decrypt(data, c.passphrase)
		if err != nil {
			return Summary{}, err
		}
	}

	payload, err := ParsePayload(data)
	if err != nil {
		return Summary{}, err
	}

	if err := c.storage.ReplaceAll(payload); err != nil {
		return Summary{}, fmt.Errorf("restore backup: %w", err)
	}

	c.logger.Info("backup restored", "path", path, "lists", len(payload.Lists), "items", payload.ItemCount())
	return Summary{ListCount: len(payload.Lists), ItemCount: payload.ItemCount()}, nil
}

// ParsePayload validates and decodes a backup document. The version check
// runs before the list data is decoded: unknown versions are rejected, never
// guessed at.
func ParsePayload(raw []byte) (model.BackupPayload, error) {
	var envelope struct {
		Version       int             `json:"version"`
		ExportedAt    string          `json:"exportedAt"`
		CurrentListID *string         `json:"currentListId"`
		Lists         json.RawMessage `json:"lists"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return model.BackupPayload{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if envelope.Version != model.BackupVersion {
		return model.BackupPayload{}, fmt.Errorf("%w (version %d)", ErrIncompatibleVersion, envelope.Version)
	}

	if len(envelope.Lists) == 0 || string(envelope.Lists) == "null" {
		return model.BackupPayload{}, ErrMissingLists
	}
	var lists []model.BackupList
	if err := json.Unmarshal(envelope.Lists, &lists); err != nil {
		return model.BackupPayload{}, fmt.Errorf("%w: %v", ErrMissingLists, err)
	}

	return model.BackupPayload{
		Version:       envelope.Version,
		ExportedAt:    envelope.ExportedAt,
		CurrentListID: envelope.CurrentListID,
		Lists:         lists,
	}, nil
}

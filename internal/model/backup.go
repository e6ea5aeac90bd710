package model

// BackupVersion is the current backup document version. Documents carrying any
// other version are rejected on restore.
const BackupVersion = 1

// BackupPayload is the portable snapshot of all persisted state. Timestamps are
// ISO-8601 strings; optional item fields are encoded as explicit nulls so the
// document round-trips stably.
type BackupPayload struct {
	Version       int          `json:"version"`
	ExportedAt    string       `json:"exportedAt"`
	CurrentListID *string      `json:"currentListId"`
	Lists         []BackupList `json:"lists"`
}

type BackupList struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	CreatedAt  string       `json:"createdAt"`
	UpdatedAt  string       `json:"updatedAt"`
	IsTemplate bool         `json:"isTemplate"`
	IsMealPlan bool         `json:"isMealPlan"`
	Items      []BackupItem `json:"items"`
}

type BackupItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	Category    string   `json:"category"`
	Notes       *string  `json:"notes"`
	Barcode     *string  `json:"barcode"`
	IsCompleted bool     `json:"isCompleted"`
	CreatedAt   string   `json:"createdAt"`
	CompletedAt *string  `json:"completedAt"`
}

// ItemCount returns the total number of items across all lists in the payload.
func (p BackupPayload) ItemCount() int {
	total := 0
	for _, l := range p.Lists {
		total += len(l.Items)
	}
	return total
}

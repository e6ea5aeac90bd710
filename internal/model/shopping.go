package model

import "time"

// Category is reference data seeded at first initialization. The state layer
// treats it as read-only.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	IsCustom bool   `json:"is_custom"`
}

// CategoryOther is the fallback category key for unrecognized items.
const CategoryOther = "other"

type ShoppingList struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Items      []ShoppingItem `json:"items"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	IsTemplate bool           `json:"is_template"`
	IsMealPlan bool           `json:"is_meal_plan"`
}

type ShoppingItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Quantity    *float64   `json:"quantity,omitempty"`
	Unit        *string    `json:"unit,omitempty"`
	Category    string     `json:"category"`
	Notes       *string    `json:"notes,omitempty"`
	Barcode     *string    `json:"barcode,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ItemUpdate describes a partial update to a ShoppingItem. A nil field leaves
// the stored value unchanged. CompletedAt is special-cased: set ClearCompletedAt
// to remove the timestamp, since a nil CompletedAt alone means "untouched".
type ItemUpdate struct {
	Name             *string
	Quantity         *float64
	Unit             *string
	Category         *string
	Notes            *string
	Barcode          *string
	IsCompleted      *bool
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

// Apply merges the update onto item and returns the result.
func (u ItemUpdate) Apply(item ShoppingItem) ShoppingItem {
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Quantity != nil {
		item.Quantity = u.Quantity
	}
	if u.Unit != nil {
		item.Unit = u.Unit
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.Notes != nil {
		item.Notes = u.Notes
	}
	if u.Barcode != nil {
		item.Barcode = u.Barcode
	}
	if u.IsCompleted != nil {
		item.IsCompleted = *u.IsCompleted
	}
	if u.CompletedAt != nil {
		item.CompletedAt = u.CompletedAt
	} else if u.ClearCompletedAt {
		item.CompletedAt = nil
	}
	return item
}

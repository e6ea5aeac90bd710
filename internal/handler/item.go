package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/scancart/scancart/internal/model"
	"github.com/scancart/scancart/internal/product"
	"github.com/scancart/scancart/internal/shopping"
)

// ItemHandler mutates items through the state store.
type ItemHandler struct {
	state  *shopping.Store
	logger *slog.Logger
}

func NewItemHandler(state *shopping.Store, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{state: state, logger: logger}
}

type itemRequest struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Category string   `json:"category"`
	Notes    *string  `json:"notes"`
	Barcode  *string  `json:"barcode"`
}

func (r itemRequest) toItem() model.ShoppingItem {
	return model.ShoppingItem{
		Name:     r.Name,
		Quantity: r.Quantity,
		Unit:     r.Unit,
		Category: r.Category,
		Notes:    r.Notes,
		Barcode:  r.Barcode,
	}
}

// CreateInCurrent adds an item to the current list. With no current list this
// is a no-op, reported as such.
func (h *ItemHandler) CreateInCurrent(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	h.state.AddItemToCurrentList(req.toItem())
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// CreateInList adds an item to a named list and returns the new item id.
// Unlike the current-list variant, failures surface to the caller.
func (h *ItemHandler) CreateInList(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("list_id")

	req, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	id, err := h.state.AddItemToList(listID, req.toItem())
	if err != nil {
		h.logger.Error("create item", "list_id", listID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *ItemHandler) decodeItem(w http.ResponseWriter, r *http.Request) (itemRequest, bool) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return req, false
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return req, false
	}

	// Auto-categorize when the client sends no category.
	if req.Category == "" {
		req.Category = product.Categorize(req.Name)
	}
	return req, true
}

type itemUpdateRequest struct {
	Name        *string  `json:"name"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	Category    *string  `json:"category"`
	Notes       *string  `json:"notes"`
	Barcode     *string  `json:"barcode"`
	IsCompleted *bool    `json:"is_completed"`
}

// Update applies a partial update to an item in the current list. Absent
// fields are left unchanged.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")

	var req itemUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	h.state.UpdateItemInCurrentList(itemID, model.ItemUpdate{
		Name:        req.Name,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Category:    req.Category,
		Notes:       req.Notes,
		Barcode:     req.Barcode,
		IsCompleted: req.IsCompleted,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Toggle flips an item's completion state.
func (h *ItemHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.state.ToggleItemCompletion(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete removes an item from the current list.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.state.RemoveItemFromCurrentList(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

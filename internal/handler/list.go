package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/scancart/scancart/internal/model"
	"github.com/scancart/scancart/internal/shopping"
	"github.com/scancart/scancart/internal/storage"
)

// ListHandler serves the list collection, the current-list pointer and the
// category vocabulary. All reads come from the state store's mirror, never
// from storage directly.
type ListHandler struct {
	state   *shopping.Store
	storage storage.Store
	logger  *slog.Logger
}

func NewListHandler(state *shopping.Store, st storage.Store, logger *slog.Logger) *ListHandler {
	return &ListHandler{state: state, storage: st, logger: logger}
}

type listResponse struct {
	Lists         []model.ShoppingList `json:"lists"`
	CurrentListID string               `json:"current_list_id,omitempty"`
	Loading       bool                 `json:"loading"`
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse{
		Lists:         h.state.Lists(),
		CurrentListID: h.state.CurrentListID(),
		Loading:       h.state.Loading(),
	})
}

type createListRequest struct {
	Name       string `json:"name"`
	IsMealPlan bool   `json:"is_meal_plan"`
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := h.state.AddList(req.Name, req.IsMealPlan)
	if err != nil {
		h.logger.Error("create list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create list")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type renameListRequest struct {
	Name string `json:"name"`
}

func (h *ListHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req renameListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	h.state.UpdateListName(id, req.Name)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.state.DeleteList(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ListHandler) Current(w http.ResponseWriter, r *http.Request) {
	list := h.state.CurrentList()
	if list == nil {
		writeError(w, http.StatusNotFound, "no current list")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type setCurrentRequest struct {
	ID string `json:"id"`
}

func (h *ListHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	var req setCurrentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	h.state.SetCurrentList(req.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ListHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	writeJSON(w, http.StatusOK, h.state.SearchItems(query))
}

func (h *ListHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.storage.ListCategories()
	if err != nil {
		h.logger.Error("list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Reset wipes all data and reinitializes with defaults. Factory reset.
func (h *ListHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.state.ClearStorage()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

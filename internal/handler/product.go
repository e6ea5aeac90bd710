package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/scancart/scancart/internal/llm"
	"github.com/scancart/scancart/internal/product"
)

// maxImageBytes caps uploaded scan images. Phone camera JPEGs stay well
// under this.
const maxImageBytes = 8 << 20

// ProductHandler serves barcode lookups and the AI scan/recipe flows.
// assistant may be nil when no API key is configured; those routes then
// answer 503.
type ProductHandler struct {
	products  *product.Service
	assistant *llm.Assistant
	logger    *slog.Logger
}

func NewProductHandler(products *product.Service, assistant *llm.Assistant, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, assistant: assistant, logger: logger}
}

func (h *ProductHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	barcode := r.PathValue("barcode")
	if barcode == "" {
		writeError(w, http.StatusBadRequest, "barcode is required")
		return
	}

	p, err := h.products.LookupBarcode(r.Context(), barcode)
	if err != nil {
		h.logger.Error("lookup barcode", "barcode", barcode, "error", err)
		writeError(w, http.StatusInternalServerError, "product lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// readImage pulls the raw image body from a scan request. Clients send the
// image bytes directly with an image/* content type.
func readImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	image, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read image")
		return nil, false
	}
	if len(image) == 0 {
		writeError(w, http.StatusBadRequest, "image is required")
		return nil, false
	}
	if len(image) > maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return nil, false
	}
	return image, true
}

func (h *ProductHandler) requireAssistant(w http.ResponseWriter) bool {
	if h.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "AI assistant is not configured")
		return false
	}
	return true
}

func (h *ProductHandler) ScanList(w http.ResponseWriter, r *http.Request) {
	if !h.requireAssistant(w) {
		return
	}
	image, ok := readImage(w, r)
	if !ok {
		return
	}

	result, err := h.assistant.ScanList(r.Context(), image)
	if err != nil {
		h.logger.Error("scan list image", "error", err)
		writeError(w, http.StatusBadGateway, "list scan failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ProductHandler) ScanBarcode(w http.ResponseWriter, r *http.Request) {
	if !h.requireAssistant(w) {
		return
	}
	image, ok := readImage(w, r)
	if !ok {
		return
	}

	result, err := h.assistant.ScanBarcode(r.Context(), image)
	if err != nil {
		h.logger.Error("scan barcode image", "error", err)
		writeError(w, http.StatusBadGateway, "barcode scan failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type recipeRequest struct {
	Ingredients []string `json:"ingredients"`
}

func (h *ProductHandler) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	if !h.requireAssistant(w) {
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Ingredients) == 0 {
		writeError(w, http.StatusBadRequest, "ingredients are required")
		return
	}

	recipe, err := h.assistant.GenerateRecipe(r.Context(), req.Ingredients)
	if err != nil {
		h.logger.Error("generate recipe", "error", err)
		writeError(w, http.StatusBadGateway, "recipe generation failed")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ScannedItem is one entry extracted from a photographed list.
type ScannedItem struct {
	Text     string  `json:"text"`
	Quantity *string `json:"quantity,omitempty"`
	Category string  `json:"category"`
}

// ScanResult is the outcome of reading a shopping list from an image.
type ScanResult struct {
	Items      []ScannedItem `json:"items"`
	Confidence float64       `json:"confidence"`
}

// BarcodeResult is the outcome of reading a barcode number from an image.
type BarcodeResult struct {
	Barcode    *string `json:"barcode"`
	Confidence float64 `json:"confidence"`
}

// RecipeStep is one numbered instruction in a generated recipe.
type RecipeStep struct {
	StepNumber  int     `json:"stepNumber"`
	Instruction string  `json:"instruction"`
	Duration    *string `json:"duration,omitempty"`
	Tips        *string `json:"tips,omitempty"`
}

// Recipe is a generated recipe built from list items.
type Recipe struct {
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Servings       int          `json:"servings"`
	PrepTime       string       `json:"prepTime"`
	CookTime       string       `json:"cookTime"`
	TotalTime      string       `json:"totalTime"`
	Difficulty     string       `json:"difficulty"`
	Ingredients    []string     `json:"ingredients"`
	Steps          []RecipeStep `json:"steps"`
	Tips           []string     `json:"tips,omitempty"`
	NutritionNotes *string      `json:"nutritionNotes,omitempty"`
}

// categoryKeys is the vocabulary offered to the model for item
// classification. Unrecognized answers fall back to "other".
var categoryKeys = []string{
	"produce", "dairy", "meat", "pantry", "frozen", "bakery",
	"snacks", "beverages", "household", "personal", "other",
}

func knownCategory(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, k := range categoryKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Assistant runs the scan and recipe flows over a Client.
type Assistant struct {
	client Client
}

func NewAssistant(client Client) *Assistant {
	return &Assistant{client: client}
}

const scanListPrompt = `Analyze this image of a shopping list or handwritten list. Extract all the items.

Return ONLY a JSON object with this exact structure:
{
  "items": [
    {"text": "item name", "quantity": "quantity if specified or null", "category": "best matching category"}
  ],
  "confidence": 0.8
}

Rules:
- Category must be one of: %s
- If quantity is not specified, use null
- Use "other" if no category matches
- Confidence is between 0 and 1 based on image clarity
- Return valid JSON only, no other text`

// ScanList extracts shopping list items from an image. Items without a name
// are dropped and unknown categories are normalized to "other".
func (a *Assistant) ScanList(ctx context.Context, image []byte) (ScanResult, error) {
	prompt := fmt.Sprintf(scanListPrompt, strings.Join(categoryKeys, ", "))

	text, err := a.client.GenerateContent(ctx, prompt, image)
	if err != nil {
		return ScanResult{}, fmt.Errorf("scan list: %w", err)
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return ScanResult{}, fmt.Errorf("scan list: %w", err)
	}

	var result ScanResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return ScanResult{}, fmt.Errorf("scan list: decode response: %w", err)
	}

	valid := result.Items[:0:0]
	for _, item := range result.Items {
		item.Text = strings.TrimSpace(item.Text)
		if item.Text == "" {
			continue
		}
		if !knownCategory(item.Category) {
			item.Category = "other"
		} else {
			item.Category = strings.ToLower(strings.TrimSpace(item.Category))
		}
		valid = append(valid, item)
	}
	result.Items = valid

	if result.Confidence <= 0 || result.Confidence > 1 {
		result.Confidence = 0.8
	}
	return result, nil
}

const scanBarcodePrompt = `Analyze this image and extract the barcode number. Look for black and white vertical lines and the digits printed near them (EAN-13, EAN-8, UPC-A and similar).

Return ONLY a JSON object with this exact structure:
{"barcode": "extracted digits or null if not found", "confidence": 0.9}

Rules:
- Extract only the numeric digits
- If multiple numbers are visible, choose the main barcode number
- If no barcode is visible, set barcode to null
- Return valid JSON only, no other text`

// ScanBarcode extracts a barcode number from an image. A nil Barcode means
// none was visible.
func (a *Assistant) ScanBarcode(ctx context.Context, image []byte) (BarcodeResult, error) {
	text, err := a.client.GenerateContent(ctx, scanBarcodePrompt, image)
	if err != nil {
		return BarcodeResult{}, fmt.Errorf("scan barcode: %w", err)
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return BarcodeResult{}, fmt.Errorf("scan barcode: %w", err)
	}

	var result BarcodeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return BarcodeResult{}, fmt.Errorf("scan barcode: decode response: %w", err)
	}

	if result.Barcode != nil {
		digits := strings.TrimSpace(*result.Barcode)
		if digits == "" || digits == "null" {
			result.Barcode = nil
		} else {
			result.Barcode = &digits
		}
	}
	return result, nil
}

const recipePrompt = `Create a recipe using these ingredients: %s

Return ONLY a JSON object with this exact structure:
{
  "title": "...", "description": "...", "servings": 4,
  "prepTime": "15 min", "cookTime": "30 min", "totalTime": "45 min",
  "difficulty": "Easy",
  "ingredients": ["..."],
  "steps": [{"stepNumber": 1, "instruction": "...", "duration": null, "tips": null}],
  "tips": ["..."],
  "nutritionNotes": null
}

Rules:
- difficulty is one of Easy, Medium, Hard
- Not every ingredient has to be used, but prefer those provided
- Return valid JSON only, no other text`

// GenerateRecipe builds a recipe from the given ingredient names.
func (a *Assistant) GenerateRecipe(ctx context.Context, ingredients []string) (Recipe, error) {
	prompt := fmt.Sprintf(recipePrompt, strings.Join(ingredients, ", "))

	text, err := a.client.GenerateContent(ctx, prompt, nil)
	if err != nil {
		return Recipe{}, fmt.Errorf("generate recipe: %w", err)
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return Recipe{}, fmt.Errorf("generate recipe: %w", err)
	}

	var recipe Recipe
	if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
		return Recipe{}, fmt.Errorf("generate recipe: decode response: %w", err)
	}
	if recipe.Title == "" {
		return Recipe{}, fmt.Errorf("generate recipe: response missing title")
	}
	return recipe, nil
}

package product

import "strings"

// Categorize maps free-form category text (an Open Food Facts category list
// or a plain item name) to one of the app's category keys. Matching is
// case-insensitive: exact match first, then substring match. Falls back to
// "other".
func Categorize(text string) string {
	name := strings.ToLower(strings.TrimSpace(text))
	if name == "" {
		return "other"
	}

	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	// Ordered more-specific-first: "frozen pizza" is frozen, not pantry.
	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return "other"
}

var exactMatch = map[string]string{
	"milk":     "dairy",
	"butter":   "dairy",
	"eggs":     "dairy",
	"cheese":   "dairy",
	"yogurt":   "dairy",
	"bread":    "bakery",
	"apples":   "produce",
	"bananas":  "produce",
	"tomatoes": "produce",
	"onions":   "produce",
	"potatoes": "produce",
	"lettuce":  "produce",
	"chicken":  "meat",
	"beef":     "meat",
	"pork":     "meat",
	"salmon":   "meat",
	"rice":     "pantry",
	"pasta":    "pantry",
	"flour":    "pantry",
	"sugar":    "pantry",
	"coffee":   "beverages",
	"tea":      "beverages",
	"water":    "beverages",
	"juice":    "beverages",
	"chips":    "snacks",
	"cookies":  "snacks",
	"soap":     "personal",
	"shampoo":  "personal",
}

var substringMatches = []struct {
	keyword  string
	category string
}{
	{"frozen", "frozen"},

	{"fruit", "produce"},
	{"vegetable", "produce"},
	{"fresh", "produce"},
	{"produce", "produce"},
	{"salad", "produce"},
	{"herb", "produce"},

	{"dairy", "dairy"},
	{"milk", "dairy"},
	{"cheese", "dairy"},
	{"yogurt", "dairy"},
	{"butter", "dairy"},
	{"cream", "dairy"},
	{"egg", "dairy"},

	{"meat", "meat"},
	{"beef", "meat"},
	{"chicken", "meat"},
	{"pork", "meat"},
	{"fish", "meat"},
	{"seafood", "meat"},
	{"sausage", "meat"},
	{"ham", "meat"},

	{"bread", "bakery"},
	{"bakery", "bakery"},
	{"pastry", "bakery"},
	{"cake", "bakery"},
	{"baked", "bakery"},

	{"cookie", "snacks"},
	{"biscuit", "snacks"},
	{"snack", "snacks"},
	{"chip", "snacks"},
	{"candy", "snacks"},
	{"chocolate", "snacks"},
	{"crisp", "snacks"},

	{"beverage", "beverages"},
	{"drink", "beverages"},
	{"juice", "beverages"},
	{"soda", "beverages"},
	{"coffee", "beverages"},
	{"tea", "beverages"},
	{"beer", "beverages"},
	{"wine", "beverages"},
	{"water", "beverages"},

	{"canned", "pantry"},
	{"sauce", "pantry"},
	{"pasta", "pantry"},
	{"rice", "pantry"},
	{"cereal", "pantry"},
	{"grain", "pantry"},
	{"flour", "pantry"},
	{"spice", "pantry"},
	{"condiment", "pantry"},
	{"oil", "pantry"},
	{"spread", "pantry"},

	{"cleaning", "household"},
	{"detergent", "household"},
	{"paper towel", "household"},
	{"toilet paper", "household"},
	{"laundry", "household"},

	{"shampoo", "personal"},
	{"soap", "personal"},
	{"toothpaste", "personal"},
	{"deodorant", "personal"},
	{"hygiene", "personal"},
	{"cosmetic", "personal"},
}

// Package product looks up scanned barcodes against the Open Food Facts API
// and maps the results onto the app's category vocabulary.
package product

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Product is the normalized lookup result. A legitimate "not found" is not an
// error: IsValid is false and Name carries a placeholder instead.
type Product struct {
	Barcode  string  `json:"barcode"`
	Name     string  `json:"name"`
	Brand    *string `json:"brand,omitempty"`
	Quantity *string `json:"quantity,omitempty"`
	Category string  `json:"category"`
	ImageURL *string `json:"image_url,omitempty"`
	IsValid  bool    `json:"is_valid"`
}

// Config holds product lookup configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Service fetches product data by barcode.
type Service struct {
	client  *http.Client
	baseURL string
}

// NewService creates a product lookup service. An empty BaseURL selects the
// public Open Food Facts endpoint.
func NewService(cfg Config) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://world.openfoodfacts.org/api/v0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Service{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type apiResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName   string `json:"product_name"`
		ProductNameEn string `json:"product_name_en"`
		Brands        string `json:"brands"`
		Categories    string `json:"categories"`
		Quantity      string `json:"quantity"`
		ImageURL      string `json:"image_url"`
		ImageFrontURL string `json:"image_front_url"`
	} `json:"product"`
}

// LookupBarcode resolves a barcode to a normalized product record. Unknown
// barcodes and upstream failures both degrade to an invalid placeholder
// record; an error is returned only when the request itself cannot be built.
func (s *Service) LookupBarcode(ctx context.Context, barcode string) (Product, error) {
	notFound := Product{
		Barcode:  barcode,
		Name:     fmt.Sprintf("Unknown Product (%s)", barcode),
		Category: "other",
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/product/%s.json", s.baseURL, barcode), nil)
	if err != nil {
		return notFound, fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return notFound, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return notFound, nil
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return notFound, nil
	}
	if body.Status == 0 {
		return notFound, nil
	}

	name := body.Product.ProductName
	if name == "" {
		name = body.Product.ProductNameEn
	}
	if name == "" {
		name = fmt.Sprintf("Product %s", barcode)
	}

	p := Product{
		Barcode:  barcode,
		Name:     name,
		Category: Categorize(body.Product.Categories),
		IsValid:  true,
	}

	if brand := firstBrand(body.Product.Brands); brand != "" {
		p.Brand = &brand
		p.Name = fmt.Sprintf("%s - %s", name, brand)
	}
	if body.Product.Quantity != "" {
		q := body.Product.Quantity
		p.Quantity = &q
	}
	if url := body.Product.ImageFrontURL; url != "" {
		p.ImageURL = &url
	} else if url := body.Product.ImageURL; url != "" {
		p.ImageURL = &url
	}
	return p, nil
}

func firstBrand(brands string) string {
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}

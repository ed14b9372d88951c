package directory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/skinshelf/backend/internal/domain"
)

// mapProduct converts a directory wire record to our domain Product model
func mapProduct(w wireProduct) domain.Product {
	p := domain.Product{
		ID:       w.ID,
		Name:     strings.TrimSpace(w.ProductName),
		Brand:    firstListed(w.Brands),
		Category: firstListed(w.Categories),
		ImageURL: w.ImageURL,
		Barcode:  w.Code,
	}
	if p.ID == "" {
		p.ID = w.Code
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	p.Ingredients = splitListed(w.IngredientsText)

	remote := domain.RemoteMetadata{
		Quantity:       strings.TrimSpace(w.Quantity),
		CategoryTags:   cleanTags(w.CategoriesTags),
		Labels:         cleanTags(w.LabelsTags),
		IngredientText: strings.TrimSpace(w.IngredientsText),
	}
	if remote.Quantity != "" || remote.IngredientText != "" ||
		len(remote.CategoryTags) > 0 || len(remote.Labels) > 0 {
		p.Remote = &remote
	}

	return p
}

// mapProducts converts a directory result list, dropping unnamed records
func mapProducts(ws []wireProduct) []domain.Product {
	products := make([]domain.Product, 0, len(ws))
	for _, w := range ws {
		p := mapProduct(w)
		if p.Name == "" {
			continue
		}
		products = append(products, p)
	}
	return products
}

// firstListed returns the first entry of a comma-separated directory field
func firstListed(s string) string {
	first, _, _ := strings.Cut(s, ",")
	return strings.TrimSpace(first)
}

// splitListed splits a comma-separated directory field into trimmed entries
func splitListed(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	entries := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries
}

// cleanTags strips the language prefix from directory taxonomy tags
// ("en:face-creams" -> "face-creams")
func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if i := strings.Index(tag, ":"); i >= 0 {
			tag = tag[i+1:]
		}
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}

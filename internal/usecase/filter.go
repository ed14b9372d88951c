package usecase

import (
	"strings"

	"github.com/skinshelf/backend/internal/domain"
)

// NormalizeQuery collapses internal whitespace and trims the query
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// matchesQuery reports whether a product matches the query, using
// case-insensitive substring semantics over name, brand, category
// and barcode
func matchesQuery(p domain.Product, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Brand), q) ||
		strings.Contains(strings.ToLower(p.Category), q) ||
		strings.Contains(strings.ToLower(p.Barcode), q)
}

// filterProducts returns a new slice with the products matching query
func filterProducts(products []domain.Product, query string) []domain.Product {
	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesQuery(p, query) {
			matched = append(matched, p)
		}
	}
	return matched
}

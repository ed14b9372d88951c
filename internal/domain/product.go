package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Product represents a single skincare product in the catalog
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand,omitempty"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Concerns    []string        `json:"concerns,omitempty"`
	Ingredients []string        `json:"ingredients,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	Rating      *float64        `json:"rating,omitempty"`
	IsFavorited bool            `json:"isFavorited"`
	Remote      *RemoteMetadata `json:"remote,omitempty"`
}

// RemoteMetadata holds the extra fields only the remote directory provides.
// Products originating from the bundled seed or placeholders carry none.
type RemoteMetadata struct {
	Quantity       string   `json:"quantity,omitempty"`
	CategoryTags   []string `json:"categoryTags,omitempty"`
	Labels         []string `json:"labels,omitempty"`
	IngredientText string   `json:"ingredientText,omitempty"`
}

// UnmarshalJSON decodes a product and backfills a random ID when the
// payload carries none, so records from older snapshots stay addressable
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Product(a)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FavoriteProjection is the slim per-product record pushed to the
// favorites sync service. It keeps enough identity to re-display a
// favorite whose full record is missing from the current catalog.
type FavoriteProjection struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Barcode  string `json:"barcode,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Projection returns the sync projection for this product
func (p Product) Projection() FavoriteProjection {
	return FavoriteProjection{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Barcode:  p.Barcode,
		ImageURL: p.ImageURL,
	}
}

// Restore rebuilds a displayable product from a sync projection. Used
// when a favorited product no longer appears in any local source.
func (f FavoriteProjection) Restore() Product {
	return Product{
		ID:          f.ID,
		Name:        f.Name,
		Brand:       f.Brand,
		Barcode:     f.Barcode,
		ImageURL:    f.ImageURL,
		IsFavorited: true,
	}
}

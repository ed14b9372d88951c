package seed

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/skinshelf/backend/internal/domain"
)

//go:embed products.json
var seedFS embed.FS

const seedFile = "products.json"

// document is the versioned seed file layout
type document struct {
	Version  int              `json:"version"`
	Products []domain.Product `json:"products"`
}

// Source implements domain.SeedSource from the packaged products.json.
// Setting Path overrides the embedded document with a file on disk.
type Source struct {
	Path string
}

// Load returns the seed products. A document that cannot be read fails
// with ErrSeedMissing; a document that reads but does not decode or
// validate fails with ErrSeedCorrupt. Callers rely on the distinction.
func (s *Source) Load() ([]domain.Product, error) {
	data, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSeedMissing, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSeedCorrupt, err)
	}
	if doc.Version < 1 {
		return nil, fmt.Errorf("%w: unversioned document", domain.ErrSeedCorrupt)
	}
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("%w: document has no products", domain.ErrSeedCorrupt)
	}

	return doc.Products, nil
}

func (s *Source) read() ([]byte, error) {
	if s.Path != "" {
		return os.ReadFile(s.Path)
	}
	return seedFS.ReadFile(seedFile)
}

package domain

import "context"

// ProductStore defines the interface for local catalog persistence.
// Implementations operate on local disk only and never touch the network.
// Callers treat every failure as an empty result, never as fatal.
type ProductStore interface {
	LoadProducts() ([]Product, error)
	SaveProducts(products []Product) error
	DeleteProducts() error
	LoadFavoriteIDs() ([]string, error)
	SaveFavoriteIDs(ids []string) error
}

// DirectoryClient defines the interface for the remote product directory
type DirectoryClient interface {
	// FetchByBarcode returns the product for a barcode, or nil when the
	// directory has no record for it. A nil product is a valid negative,
	// distinct from a transport or decode error.
	FetchByBarcode(ctx context.Context, barcode string) (*Product, error)

	// Search returns one page of products matching the query. An empty
	// page is a valid answer, not an error.
	Search(ctx context.Context, query string, page, pageSize int) ([]Product, error)

	// FetchRandom returns up to count products sampled from the directory
	FetchRandom(ctx context.Context, count int) ([]Product, error)
}

// SeedSource defines the interface for the packaged product seed
type SeedSource interface {
	Load() ([]Product, error)
}

// FavoritesSyncer defines the interface for mirroring the favorite set
// to a remote profile service. Best-effort: callers log and swallow
// every failure.
type FavoritesSyncer interface {
	Save(ctx context.Context, userID string, ids []string, items []FavoriteProjection) error
	Load(ctx context.Context, userID string) ([]string, []FavoriteProjection, error)
}

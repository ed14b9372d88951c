package domain

// FallbackTier identifies which source produced the catalog currently
// held in memory. Tiers are ordered from most to least fresh.
type FallbackTier int

const (
	// TierRemote means the catalog came from a live directory fetch
	TierRemote FallbackTier = iota

	// TierStoredCache means the catalog was read from the local store
	TierStoredCache

	// TierBundledSeed means the catalog came from the packaged seed file
	TierBundledSeed

	// TierPlaceholder means every other source failed and synthetic
	// placeholder products are being shown
	TierPlaceholder
)

func (t FallbackTier) String() string {
	switch t {
	case TierRemote:
		return "remote"
	case TierStoredCache:
		return "stored_cache"
	case TierBundledSeed:
		return "bundled_seed"
	case TierPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// SearchState is a snapshot of the active search session
type SearchState struct {
	Query    string `json:"query"`
	Page     int    `json:"page"`
	HasMore  bool   `json:"hasMore"`
	InFlight bool   `json:"inFlight"`
	Failed   bool   `json:"failed"`
}

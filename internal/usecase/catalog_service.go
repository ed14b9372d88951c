package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/skinshelf/backend/internal/domain"
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	PageSize    int           // search page size
	SampleCount int           // default random sample size
	SyncUserID  string        // empty disables favorites sync
	SyncTimeout time.Duration // deadline for one background sync push
}

// searchSession tracks pagination state for one active query
type searchSession struct {
	query     string
	results   []domain.Product
	page      int
	hasMore   bool
	inFlight  bool
	apiFailed bool
}

// CatalogService owns the in-memory product catalog and the favorite
// set, reconciling them across the remote directory, the local store,
// the bundled seed and placeholder data. All state mutations are
// serialized on one mutex; network requests never hold it, and every
// response is re-validated against current state before it is applied.
type CatalogService struct {
	store     domain.ProductStore
	directory domain.DirectoryClient
	seed      domain.SeedSource
	syncer    domain.FavoritesSyncer
	cfg       CatalogServiceConfig

	mu             sync.Mutex
	catalog        []domain.Product
	favorites      map[string]bool
	scanInserted   map[string]bool
	session        searchSession
	sampleInFlight bool
	diagnostic     string
	lastTier       domain.FallbackTier
}

// NewCatalogService creates a new catalog service with dependencies.
// Any collaborator may be nil; the service degrades rather than fails.
func NewCatalogService(
	store domain.ProductStore,
	directory domain.DirectoryClient,
	seed domain.SeedSource,
	syncer domain.FavoritesSyncer,
	cfg CatalogServiceConfig,
) *CatalogService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.SampleCount <= 0 {
		cfg.SampleCount = 20
	}
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = 10 * time.Second
	}

	return &CatalogService{
		store:        store,
		directory:    directory,
		seed:         seed,
		syncer:       syncer,
		cfg:          cfg,
		favorites:    make(map[string]bool),
		scanInserted: make(map[string]bool),
	}
}

// Initialize loads persisted favorites and the stored catalog before
// any network I/O, so favorite status is known from the first read.
// It then reconciles the cloud favorites document and fetches a fresh
// random sample. Store failures downgrade to empty state.
func (s *CatalogService) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.store != nil {
		ids, err := s.store.LoadFavoriteIDs()
		if err != nil {
			log.Printf("[CATALOG] Favorites unavailable, starting empty: %v", err)
		}
		for _, id := range ids {
			s.favorites[id] = true
		}

		products, err := s.store.LoadProducts()
		if err != nil {
			log.Printf("[CATALOG] Stored catalog unavailable, starting empty: %v", err)
		}
		if len(products) > 0 {
			s.catalog = s.snapshotLocked(products)
			s.lastTier = domain.TierStoredCache
		}
	}
	s.mu.Unlock()

	s.reconcileCloudFavorites(ctx)
	s.LoadRandomSample(ctx, s.cfg.SampleCount)
}

// reconcileCloudFavorites unions the cloud favorites document into
// local state. Union only: a favorite removed on another device is
// never removed here.
func (s *CatalogService) reconcileCloudFavorites(ctx context.Context) {
	if s.syncer == nil || s.cfg.SyncUserID == "" {
		return
	}

	ids, items, err := s.syncer.Load(ctx, s.cfg.SyncUserID)
	if err != nil {
		log.Printf("[SYNC] Favorites reconcile skipped: %v", err)
		return
	}
	if len(ids) == 0 && len(items) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, id := range ids {
		if !s.favorites[id] {
			s.favorites[id] = true
			changed = true
		}
	}
	for _, item := range items {
		if !s.favorites[item.ID] {
			s.favorites[item.ID] = true
			changed = true
		}
		if !s.inCatalogLocked(item.ID) {
			s.catalog = append(s.catalog, item.Restore())
			s.scanInserted[item.ID] = true
		}
	}

	if changed && s.store != nil {
		if err := s.store.SaveFavoriteIDs(s.favoriteIDsLocked()); err != nil {
			log.Printf("[CATALOG] Failed to persist reconciled favorites: %v", err)
		}
	}
	log.Printf("[SYNC] Reconciled %d cloud favorites", len(ids))
}

// LoadRandomSample fetches count random products from the directory and
// replaces the catalog with favorites first, fetched products after.
// At most one sample load runs at a time. On failure the catalog is
// left untouched; fallback happens lazily from Filtered, never here.
func (s *CatalogService) LoadRandomSample(ctx context.Context, count int) {
	if s.directory == nil {
		return
	}
	if count <= 0 {
		count = s.cfg.SampleCount
	}

	s.mu.Lock()
	if s.sampleInFlight {
		s.mu.Unlock()
		return
	}
	s.sampleInFlight = true
	s.mu.Unlock()

	fetched, err := s.directory.FetchRandom(ctx, count)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampleInFlight = false

	if err != nil {
		s.diagnostic = fmt.Sprintf("could not refresh catalog: %v", err)
		log.Printf("[CATALOG] Random sample failed, keeping current catalog: %v", err)
		return
	}

	s.catalog = s.mergeFavoritedFirstLocked(fetched)
	s.lastTier = domain.TierRemote
	s.diagnostic = ""
	s.persistCatalogLocked()
	log.Printf("[CATALOG] Catalog refreshed with %d fetched products (%d after merge)", len(fetched), len(s.catalog))
}

// Search starts a fresh session for query and fetches its first page.
// An empty query only clears the session. A response arriving after the
// query changed again is discarded.
func (s *CatalogService) Search(ctx context.Context, query string) {
	query = NormalizeQuery(query)

	s.mu.Lock()
	if query == "" {
		s.session = searchSession{}
		s.mu.Unlock()
		return
	}
	if s.directory == nil {
		s.session = searchSession{query: query, page: 1, apiFailed: true}
		s.mu.Unlock()
		return
	}
	s.session = searchSession{query: query, page: 1, inFlight: true}
	pageSize := s.cfg.PageSize
	s.mu.Unlock()

	results, err := s.directory.Search(ctx, query, 1, pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.query != query {
		log.Printf("[CATALOG] Discarding stale search response for %q", query)
		return
	}
	s.session.inFlight = false

	if err != nil {
		s.session.results = nil
		s.session.apiFailed = true
		s.session.hasMore = false
		s.diagnostic = fmt.Sprintf("search failed: %v", err)
		log.Printf("[CATALOG] Search %q failed: %v", query, err)
		s.resolveFallbackLocked()
		return
	}

	s.session.results = results
	s.session.apiFailed = false
	// A full page implies more may exist; the directory sends no
	// explicit signal.
	s.session.hasMore = len(results) >= pageSize
	if len(results) == 0 {
		s.diagnostic = fmt.Sprintf("no results for %q", query)
	} else {
		s.diagnostic = ""
	}
	log.Printf("[CATALOG] Search %q page 1 returned %d products", query, len(results))
}

// LoadMore fetches the next page of the active search session. It is a
// no-op when no directory client is configured, no query is active, a
// page load is already running, or the session is exhausted.
func (s *CatalogService) LoadMore(ctx context.Context) {
	if s.directory == nil {
		return
	}

	s.mu.Lock()
	if s.session.query == "" || s.session.inFlight || !s.session.hasMore {
		s.mu.Unlock()
		return
	}
	s.session.inFlight = true
	query := s.session.query
	nextPage := s.session.page + 1
	pageSize := s.cfg.PageSize
	s.mu.Unlock()

	results, err := s.directory.Search(ctx, query, nextPage, pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.query != query {
		log.Printf("[CATALOG] Discarding stale page %d for %q", nextPage, query)
		return
	}
	s.session.inFlight = false

	if err != nil {
		// hasMore stays true so the consumer may retry
		s.diagnostic = fmt.Sprintf("could not load more results: %v", err)
		log.Printf("[CATALOG] Page %d for %q failed: %v", nextPage, query, err)
		return
	}

	s.session.results = append(s.session.results, results...)
	if len(results) > 0 {
		s.session.page = nextPage
	}
	if len(results) < pageSize {
		s.session.hasMore = false
	}
	log.Printf("[CATALOG] Page %d for %q returned %d products (%d total)", nextPage, query, len(results), len(s.session.results))
}

// Filtered returns the products the consumer should currently see for
// query. It never performs network I/O; when the last search failed and
// nothing is displayable it resolves the local fallback chain first.
func (s *CatalogService) Filtered(query string) []domain.Product {
	query = NormalizeQuery(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		return s.snapshotLocked(s.catalog)
	}
	if len(s.session.results) > 0 {
		return s.snapshotLocked(s.session.results)
	}
	if s.session.apiFailed && len(s.catalog) == 0 {
		s.resolveFallbackLocked()
	}
	return filterProducts(s.snapshotLocked(s.catalog), query)
}

// ToggleFavorite flips the favorite state of product. Newly favorited
// products missing from the catalog are inserted; unfavoriting a
// product that entered the catalog only that way removes it again. The
// change persists locally and is pushed to the sync service in the
// background without blocking the caller.
func (s *CatalogService) ToggleFavorite(product domain.Product) {
	s.mu.Lock()

	id := product.ID
	if s.favorites[id] {
		delete(s.favorites, id)
		if s.scanInserted[id] {
			delete(s.scanInserted, id)
			s.removeFromCatalogLocked(id)
		}
		log.Printf("[CATALOG] Unfavorited %s", id)
	} else {
		s.favorites[id] = true
		if !s.inCatalogLocked(id) {
			product.IsFavorited = true
			s.catalog = append(s.catalog, product)
			s.scanInserted[id] = true
		}
		log.Printf("[CATALOG] Favorited %s", id)
	}

	ids := s.favoriteIDsLocked()
	items := s.favoriteProjectionsLocked()

	if s.store != nil {
		if err := s.store.SaveFavoriteIDs(ids); err != nil {
			s.diagnostic = "favorites could not be saved locally"
			log.Printf("[CATALOG] Failed to persist favorites: %v", err)
		}
	}
	s.mu.Unlock()

	s.queueFavoritesSync(ids, items)
}

// queueFavoritesSync pushes the favorite set to the sync service in the
// background. The caller never waits; failures are only logged.
func (s *CatalogService) queueFavoritesSync(ids []string, items []domain.FavoriteProjection) {
	if s.syncer == nil || s.cfg.SyncUserID == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SyncTimeout)
		defer cancel()
		if err := s.syncer.Save(ctx, s.cfg.SyncUserID, ids, items); err != nil {
			log.Printf("[SYNC] Favorites push failed: %v", err)
		}
	}()
}

// LookupBarcode finds a product by barcode, checking the in-memory
// catalog before asking the directory. A nil product with nil error
// means the barcode is unknown, which is not a failure. The catalog is
// not mutated; insertion happens through ToggleFavorite.
func (s *CatalogService) LookupBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	s.mu.Lock()
	for _, p := range s.catalog {
		if p.Barcode == barcode {
			p.IsFavorited = s.favorites[p.ID]
			s.mu.Unlock()
			return &p, nil
		}
	}
	s.mu.Unlock()

	if s.directory == nil {
		return nil, nil
	}

	product, err := s.directory.FetchByBarcode(ctx, barcode)
	if err != nil || product == nil {
		return nil, err
	}

	s.mu.Lock()
	product.IsFavorited = s.favorites[product.ID]
	s.mu.Unlock()
	return product, nil
}

// ForceRefreshFromBundle rebuilds the catalog from the packaged seed:
// favorites are reloaded, the stored catalog is dropped, and the seed
// becomes the new persisted snapshot merged favorited-first. Only a
// missing seed escalates to placeholder data; a corrupt seed keeps the
// current catalog and surfaces a diagnostic. An active search session
// is left untouched.
func (s *CatalogService) ForceRefreshFromBundle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		ids, err := s.store.LoadFavoriteIDs()
		if err != nil {
			log.Printf("[CATALOG] Favorites reload failed, keeping current set: %v", err)
		} else {
			s.favorites = make(map[string]bool, len(ids))
			for _, id := range ids {
				s.favorites[id] = true
			}
		}
		if err := s.store.DeleteProducts(); err != nil {
			log.Printf("[CATALOG] Failed to drop stored catalog: %v", err)
		}
	}

	var seedProducts []domain.Product
	err := domain.ErrSeedMissing
	if s.seed != nil {
		seedProducts, err = s.seed.Load()
	}

	if err != nil {
		if errors.Is(err, domain.ErrSeedMissing) {
			s.catalog = s.mergeFavoritedFirstLocked(placeholderProducts())
			s.lastTier = domain.TierPlaceholder
			s.diagnostic = "bundled catalog unavailable, showing placeholder products"
			log.Printf("[CATALOG] Seed missing, refreshed with placeholders: %v", err)
			return
		}
		s.diagnostic = "bundled catalog is damaged"
		log.Printf("[CATALOG] Seed unreadable, catalog unchanged: %v", err)
		return
	}

	s.catalog = s.mergeFavoritedFirstLocked(seedProducts)
	s.lastTier = domain.TierBundledSeed
	s.diagnostic = ""
	s.persistCatalogLocked()
	log.Printf("[CATALOG] Catalog refreshed from bundled seed (%d products)", len(s.catalog))
}

// resolveFallbackLocked walks the local fallback chain: the bundled
// seed, then the stored catalog, then fixed placeholders. Each tier
// merges favorited-first so existing favorites are overlaid, never
// replaced. No network call happens here.
func (s *CatalogService) resolveFallbackLocked() {
	if s.seed != nil {
		products, err := s.seed.Load()
		if err != nil {
			log.Printf("[CATALOG] Bundled seed unavailable: %v", err)
		} else if len(products) > 0 {
			s.catalog = s.mergeFavoritedFirstLocked(products)
			s.lastTier = domain.TierBundledSeed
			log.Printf("[CATALOG] Fallback resolved from bundled seed (%d products)", len(s.catalog))
			return
		}
	}

	if s.store != nil {
		products, err := s.store.LoadProducts()
		if err != nil {
			log.Printf("[CATALOG] Stored catalog unavailable: %v", err)
		} else if len(products) > 0 {
			s.catalog = s.mergeFavoritedFirstLocked(products)
			s.lastTier = domain.TierStoredCache
			log.Printf("[CATALOG] Fallback resolved from stored catalog (%d products)", len(s.catalog))
			return
		}
	}

	s.catalog = s.mergeFavoritedFirstLocked(placeholderProducts())
	s.lastTier = domain.TierPlaceholder
	s.diagnostic = "showing placeholder products"
	log.Printf("[CATALOG] Fallback exhausted, using placeholder products")
}

// mergeFavoritedFirstLocked builds the favorited-first snapshot: every
// currently-favorited product already in memory keeps its position at
// the front, then fetched products are appended unless they duplicate a
// kept entry by ID or by barcode.
func (s *CatalogService) mergeFavoritedFirstLocked(fetched []domain.Product) []domain.Product {
	merged := make([]domain.Product, 0, len(fetched)+len(s.favorites))
	seenID := make(map[string]bool)
	seenBarcode := make(map[string]bool)

	for _, p := range s.catalog {
		if !s.favorites[p.ID] || seenID[p.ID] {
			continue
		}
		p.IsFavorited = true
		merged = append(merged, p)
		seenID[p.ID] = true
		if p.Barcode != "" {
			seenBarcode[p.Barcode] = true
		}
	}

	for _, p := range fetched {
		if seenID[p.ID] {
			continue
		}
		if p.Barcode != "" && seenBarcode[p.Barcode] {
			continue
		}
		p.IsFavorited = s.favorites[p.ID]
		merged = append(merged, p)
		seenID[p.ID] = true
		if p.Barcode != "" {
			seenBarcode[p.Barcode] = true
		}
	}

	return merged
}

// snapshotLocked copies products with favorite flags recomputed from
// the current favorite set
func (s *CatalogService) snapshotLocked(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		p.IsFavorited = s.favorites[p.ID]
		out[i] = p
	}
	return out
}

func (s *CatalogService) persistCatalogLocked() {
	if s.store == nil {
		return
	}
	if err := s.store.SaveProducts(s.catalog); err != nil {
		log.Printf("[CATALOG] Failed to persist catalog: %v", err)
	}
}

func (s *CatalogService) inCatalogLocked(id string) bool {
	for _, p := range s.catalog {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *CatalogService) removeFromCatalogLocked(id string) {
	for i, p := range s.catalog {
		if p.ID == id {
			s.catalog = append(s.catalog[:i], s.catalog[i+1:]...)
			return
		}
	}
}

// favoriteIDsLocked lists favorite IDs in catalog order, then any
// orphan IDs sorted for deterministic persistence
func (s *CatalogService) favoriteIDsLocked() []string {
	ids := make([]string, 0, len(s.favorites))
	seen := make(map[string]bool, len(s.favorites))
	for _, p := range s.catalog {
		if s.favorites[p.ID] && !seen[p.ID] {
			ids = append(ids, p.ID)
			seen[p.ID] = true
		}
	}

	orphans := make([]string, 0)
	for id := range s.favorites {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return append(ids, orphans...)
}

// favoriteProjectionsLocked builds sync projections for every favorite
// with a known product record
func (s *CatalogService) favoriteProjectionsLocked() []domain.FavoriteProjection {
	items := make([]domain.FavoriteProjection, 0, len(s.favorites))
	for _, p := range s.catalog {
		if s.favorites[p.ID] {
			items = append(items, p.Projection())
		}
	}
	return items
}

// Catalog returns a copy of the current catalog snapshot
func (s *CatalogService) Catalog() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(s.catalog)
}

// FavoriteIDs returns the current favorite IDs, catalog order first
func (s *CatalogService) FavoriteIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favoriteIDsLocked()
}

// IsFavorite reports whether id is currently favorited
func (s *CatalogService) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites[id]
}

// FavoriteProducts returns the favorited subset of the catalog
func (s *CatalogService) FavoriteProducts() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs := make([]domain.Product, 0, len(s.favorites))
	for _, p := range s.catalog {
		if s.favorites[p.ID] {
			p.IsFavorited = true
			favs = append(favs, p)
		}
	}
	return favs
}

// SearchState returns a snapshot of the active search session
func (s *CatalogService) SearchState() domain.SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SearchState{
		Query:    s.session.query,
		Page:     s.session.page,
		HasMore:  s.session.hasMore,
		InFlight: s.session.inFlight,
		Failed:   s.session.apiFailed,
	}
}

// Diagnostic returns the last recorded user-facing notice
func (s *CatalogService) Diagnostic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diagnostic
}

// LastTier returns the source tier of the current catalog
func (s *CatalogService) LastTier() domain.FallbackTier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTier
}

// placeholderProducts is the fixed last-resort catalog shown when every
// real source has failed
func placeholderProducts() []domain.Product {
	return []domain.Product{
		{ID: "placeholder-gentle-cleanser", Name: "Gentle Daily Cleanser", Brand: "SkinShelf", Category: "Cleansers"},
		{ID: "placeholder-daily-moisturizer", Name: "Daily Moisturizer", Brand: "SkinShelf", Category: "Moisturizers"},
		{ID: "placeholder-mineral-spf30", Name: "Mineral Sunscreen SPF 30", Brand: "SkinShelf", Category: "Sunscreen"},
		{ID: "placeholder-soothing-serum", Name: "Soothing Serum", Brand: "SkinShelf", Category: "Serums"},
	}
}

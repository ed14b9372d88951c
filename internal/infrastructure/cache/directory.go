package cache

import (
	"context"
	"sync"
	"time"

	"github.com/skinshelf/backend/internal/domain"
)

// cachedLookup represents a single resolved barcode with expiration
type cachedLookup struct {
	product    domain.Product
	expiration time.Time
}

// Directory decorates a DirectoryClient with a thread-safe in-memory
// TTL cache for barcode lookups. Only successful lookups are cached;
// unknown barcodes and failures always reach the inner client. Search
// and random sampling pass through uncached.
type Directory struct {
	inner domain.DirectoryClient
	ttl   time.Duration

	data  map[string]cachedLookup
	mutex sync.RWMutex
}

// NewDirectory wraps client with a lookup cache holding entries for ttl
func NewDirectory(client domain.DirectoryClient, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}

	d := &Directory{
		inner: client,
		ttl:   ttl,
		data:  make(map[string]cachedLookup),
	}

	// Start cleanup goroutine to remove expired entries every 10 minutes
	go d.cleanupExpired()

	return d
}

// FetchByBarcode answers from the cache when it can, otherwise asks the
// inner client and remembers a successful answer
func (d *Directory) FetchByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	d.mutex.RLock()
	item, exists := d.data[barcode]
	d.mutex.RUnlock()

	if exists && time.Now().Before(item.expiration) {
		product := item.product
		return &product, nil
	}

	product, err := d.inner.FetchByBarcode(ctx, barcode)
	if err != nil || product == nil {
		return product, err
	}

	d.mutex.Lock()
	d.data[barcode] = cachedLookup{
		product:    *product,
		expiration: time.Now().Add(d.ttl),
	}
	d.mutex.Unlock()

	return product, nil
}

// Search passes through to the inner client
func (d *Directory) Search(ctx context.Context, query string, page, pageSize int) ([]domain.Product, error) {
	return d.inner.Search(ctx, query, page, pageSize)
}

// FetchRandom passes through to the inner client
func (d *Directory) FetchRandom(ctx context.Context, count int) ([]domain.Product, error) {
	return d.inner.FetchRandom(ctx, count)
}

// cleanupExpired removes expired entries from the cache periodically
func (d *Directory) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		d.mutex.Lock()
		now := time.Now()
		for key, item := range d.data {
			if now.After(item.expiration) {
				delete(d.data, key)
			}
		}
		d.mutex.Unlock()
	}
}

// Size returns the current number of cached lookups (for debugging/monitoring)
func (d *Directory) Size() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return len(d.data)
}

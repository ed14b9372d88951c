package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/skinshelf/backend/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketProducts  = []byte("products")
	bucketFavorites = []byte("favorites")
)

const (
	keyCatalog   = "catalog"
	keyFavorites = "ids"
)

// BoltStore implements domain.ProductStore using BoltDB. An empty path
// selects memory-only mode: data lives in process memory and is lost on
// exit, but every operation still succeeds.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex

	// Backing map for memory-only mode (db == nil)
	mem map[string][]byte
}

// NewBoltStore opens the store at path, creating the file and its parent
// directory as needed. An empty path returns a memory-only store.
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return &BoltStore{mem: make(map[string][]byte)}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketProducts, bucketFavorites} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return &BoltStore{db: db}, nil
}

// Close releases the underlying database file
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Persistent reports whether writes survive process restarts
func (s *BoltStore) Persistent() bool {
	return s.db != nil
}

func (s *BoltStore) get(bucket []byte, key string) ([]byte, error) {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.mem[string(bucket)+":"+key], nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return data, nil
}

func (s *BoltStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if s.db == nil {
		s.mu.Lock()
		s.mem[string(bucket)+":"+key] = data
		s.mu.Unlock()
		return nil
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *BoltStore) delete(bucket []byte, key string) error {
	if s.db == nil {
		s.mu.Lock()
		delete(s.mem, string(bucket)+":"+key)
		s.mu.Unlock()
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// SaveProducts replaces the persisted catalog snapshot wholesale
func (s *BoltStore) SaveProducts(products []domain.Product) error {
	return s.set(bucketProducts, keyCatalog, products)
}

// LoadProducts returns the persisted catalog snapshot. A store that has
// never been written returns nil with no error.
func (s *BoltStore) LoadProducts() ([]domain.Product, error) {
	data, err := s.get(bucketProducts, keyCatalog)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	return products, nil
}

// DeleteProducts removes the persisted catalog snapshot
func (s *BoltStore) DeleteProducts() error {
	return s.delete(bucketProducts, keyCatalog)
}

// SaveFavoriteIDs replaces the persisted favorite ID set wholesale
func (s *BoltStore) SaveFavoriteIDs(ids []string) error {
	return s.set(bucketFavorites, keyFavorites, ids)
}

// LoadFavoriteIDs returns the persisted favorite ID set. A store that
// has never been written returns nil with no error.
func (s *BoltStore) LoadFavoriteIDs() ([]string, error) {
	data, err := s.get(bucketFavorites, keyFavorites)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	return ids, nil
}

package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skinshelf/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_LoadEmbedded(t *testing.T) {
	source := &Source{}

	products, err := source.Load()

	require.NoError(t, err)
	require.NotEmpty(t, products)

	seen := make(map[string]bool)
	for _, p := range products {
		assert.NotEmpty(t, p.ID, "seed product without ID: %+v", p)
		assert.NotEmpty(t, p.Name, "seed product without name: %+v", p)
		assert.False(t, seen[p.ID], "duplicate seed product ID: %s", p.ID)
		seen[p.ID] = true
	}
}

func TestSource_LoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	doc := `{"version": 1, "products": [{"id": "p1", "name": "Test Cleanser", "brand": "TestBrand"}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	source := &Source{Path: path}
	products, err := source.Load()

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Test Cleanser", products[0].Name)
}

func TestSource_Missing(t *testing.T) {
	source := &Source{Path: filepath.Join(t.TempDir(), "does-not-exist.json")}

	products, err := source.Load()

	assert.Nil(t, products)
	assert.ErrorIs(t, err, domain.ErrSeedMissing)
}

func TestSource_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	source := &Source{Path: path}
	products, err := source.Load()

	assert.Nil(t, products)
	assert.ErrorIs(t, err, domain.ErrSeedCorrupt)
	assert.NotErrorIs(t, err, domain.ErrSeedMissing)
}

func TestSource_Unversioned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	doc := `{"products": [{"id": "p1", "name": "Test"}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	source := &Source{Path: path}
	_, err := source.Load()

	assert.ErrorIs(t, err, domain.ErrSeedCorrupt)
}

func TestSource_EmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	doc := `{"version": 1, "products": []}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	source := &Source{Path: path}
	_, err := source.Load()

	assert.ErrorIs(t, err, domain.ErrSeedCorrupt)
}

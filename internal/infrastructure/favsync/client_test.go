package favsync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skinshelf/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_Success(t *testing.T) {
	var received favoritesDocument

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/users/user-1/favorites", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	err := client.Save(context.Background(), "user-1",
		[]string{"p1", "p2"},
		[]domain.FavoriteProjection{{ID: "p1", Name: "Hydrating Cleanser"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, received.IDs)
	require.Len(t, received.Items, 1)
	assert.Equal(t, "Hydrating Cleanser", received.Items[0].Name)
}

func TestSave_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	err := client.Save(context.Background(), "user-1", []string{"p1"}, nil)

	assert.ErrorIs(t, err, domain.ErrSyncUnavailable)
}

func TestSave_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	err := client.Save(context.Background(), "user-1", []string{"p1"}, nil)

	assert.ErrorIs(t, err, domain.ErrSyncUnavailable)
}

func TestLoad_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/users/user-1/favorites", r.URL.Path)

		doc := favoritesDocument{
			IDs:   []string{"p1", "p3"},
			Items: []domain.FavoriteProjection{{ID: "p3", Name: "Squalane Oil", Brand: "The Ordinary"}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	ids, items, err := client.Load(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, ids)
	require.Len(t, items, 1)
	assert.Equal(t, "Squalane Oil", items[0].Name)
}

func TestLoad_NoDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	ids, items, err := client.Load(context.Background(), "new-user")

	// A user who has never synced is empty, not an error
	assert.NoError(t, err)
	assert.Nil(t, ids)
	assert.Nil(t, items)
}

func TestLoad_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, _, err := client.Load(context.Background(), "user-1")

	assert.ErrorIs(t, err, domain.ErrSyncUnavailable)
}

func TestLoad_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a document"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, _, err := client.Load(context.Background(), "user-1")

	assert.ErrorIs(t, err, domain.ErrSyncUnavailable)
}

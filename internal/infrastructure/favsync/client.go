package favsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/skinshelf/backend/internal/domain"
)

// Client implements domain.FavoritesSyncer against a profile service
// that stores one favorites document per user. Callers treat every
// failure as non-fatal.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// favoritesDocument is the wire shape stored per user
type favoritesDocument struct {
	IDs   []string                    `json:"ids"`
	Items []domain.FavoriteProjection `json:"items"`
}

// NewClient creates a new favorites sync client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Save replaces the user's favorites document
func (c *Client) Save(ctx context.Context, userID string, ids []string, items []domain.FavoriteProjection) error {
	body, err := json.Marshal(favoritesDocument{IDs: ids, Items: items})
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.documentURL(userID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSyncUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
	default:
		return fmt.Errorf("%w: status %d", domain.ErrSyncUnavailable, resp.StatusCode)
	}

	log.Printf("[SYNC] Saved %d favorites for user %s", len(ids), userID)
	return nil
}

// Load returns the user's favorites document. A user without a document
// yet is empty results, not an error.
func (c *Client) Load(ctx context.Context, userID string) ([]string, []domain.FavoriteProjection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.documentURL(userID), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrSyncUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: status %d", domain.ErrSyncUnavailable, resp.StatusCode)
	}

	var doc favoritesDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrSyncUnavailable, err)
	}

	log.Printf("[SYNC] Loaded %d favorites for user %s", len(doc.IDs), userID)
	return doc.IDs, doc.Items, nil
}

func (c *Client) documentURL(userID string) string {
	return fmt.Sprintf("%s/v1/users/%s/favorites", c.baseURL, url.PathEscape(userID))
}

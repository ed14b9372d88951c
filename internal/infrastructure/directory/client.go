package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/skinshelf/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	maxAttempts = 3

	// The directory sorts by scan popularity; random sampling picks one
	// of the first randomPageSpan pages of that ordering.
	randomPageSpan = 50
)

// Config holds the directory client settings
type Config struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// Client handles communication with the remote product directory API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
}

// NewClient creates a new directory API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "SkinShelf/1.0 (backend)"
	}
	// The public directory asks anonymous clients to stay polite;
	// roughly one request every two seconds with a small burst.
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 0.5
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 5
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDirectoryFailure, err)
	}

	return resp, nil
}

// retryable reports whether a response status is worth another attempt
func retryable(status int) bool {
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}

// FetchByBarcode looks up a single product by barcode. A missing barcode
// is a valid negative: it returns nil with no error.
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	log.Printf("[DIRECTORY] FetchByBarcode called with code: %q", barcode)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))
	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Printf("[DIRECTORY] No product for code: %q", barcode)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrDirectoryFailure, resp.StatusCode, string(body))
	}

	var envelope productEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}

	// status 0 is the directory's in-band "unknown barcode" answer
	if envelope.Status == 0 || envelope.Product == nil {
		log.Printf("[DIRECTORY] No product for code: %q (%s)", barcode, envelope.StatusVerbose)
		return nil, nil
	}

	product := mapProduct(*envelope.Product)
	return &product, nil
}

// Search requests one page of products matching the query. An empty page
// is a valid answer, not an error.
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) ([]domain.Product, error) {
	log.Printf("[DIRECTORY] Search called with query: %q (page %d, size %d)", query, page, pageSize)

	params := url.Values{}
	params.Add("search_terms", query)
	params.Add("page", fmt.Sprintf("%d", page))
	params.Add("page_size", fmt.Sprintf("%d", pageSize))
	params.Add("action", "process")
	params.Add("json", "1")

	return c.fetchList(ctx, params)
}

// FetchRandom samples count products by requesting a random page of the
// popularity-sorted listing
func (c *Client) FetchRandom(ctx context.Context, count int) ([]domain.Product, error) {
	page := rand.IntN(randomPageSpan) + 1
	log.Printf("[DIRECTORY] FetchRandom called for %d products (page %d)", count, page)

	params := url.Values{}
	params.Add("search_terms", "")
	params.Add("page", fmt.Sprintf("%d", page))
	params.Add("page_size", fmt.Sprintf("%d", count))
	params.Add("sort_by", "unique_scans_n")
	params.Add("action", "process")
	params.Add("json", "1")

	return c.fetchList(ctx, params)
}

// fetchList executes a paginated search request with retries on
// transient failures
func (c *Client) fetchList(ctx context.Context, params url.Values) ([]domain.Product, error) {
	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[DIRECTORY] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if attempt < maxAttempts {
				time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrDirectoryFailure, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				log.Printf("[DIRECTORY] API error - Status: %d, Body: %s", resp.StatusCode, string(body))
				return nil, lastErr
			}
			log.Printf("[DIRECTORY] API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			if attempt < maxAttempts {
				time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			}
			continue
		}

		var envelope searchEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			log.Printf("[DIRECTORY] JSON decode error: %v", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
		}

		products := mapProducts(envelope.Products)
		log.Printf("[DIRECTORY] Received %d products (%d usable)", len(envelope.Products), len(products))
		return products, nil
	}

	log.Printf("[DIRECTORY] All retries failed: %v", lastErr)
	return nil, lastErr
}

// Package googlebooks is a client for the Google Books volumes API, the
// storefront's catalog data source.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// OrderRelevance is the only ordering the storefront uses; the API's
// relevance rank is preserved as the display order.
const OrderRelevance = "relevance"

// FilterPaidEbooks restricts search results to purchasable ebooks.
const FilterPaidEbooks = "paid-ebooks"

// SearchParams describes one volumes query.
type SearchParams struct {
	Subject    string // Category query term, sent as q=subject:<Subject>
	MaxResults int    // Bounded result count (API caps at 40)
	Filter     string // Optional, e.g. FilterPaidEbooks
	PrintType  string // Optional, e.g. "books"
	Projection string // Optional, e.g. "full"
}

// Client fetches volumes from the Google Books API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates a Google Books client with rate limiting.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: newRateLimiter(200 * time.Millisecond),
	}
}

// Search runs one volumes query and returns the raw result list in relevance
// order. An absent or empty "items" field decodes to zero results, not an error.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Volume, error) {
	if params.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	c.rateLimiter.wait()

	q := url.Values{}
	q.Set("q", "subject:"+params.Subject)
	q.Set("orderBy", OrderRelevance)
	q.Set("maxResults", strconv.Itoa(params.MaxResults))
	if params.Filter != "" {
		q.Set("filter", params.Filter)
	}
	if params.PrintType != "" {
		q.Set("printType", params.PrintType)
	}
	if params.Projection != "" {
		q.Set("projection", params.Projection)
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	searchURL := c.baseURL + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result searchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return result.Items, nil
}

// GetVolume fetches one full volume record by its catalog identifier.
func (c *Client) GetVolume(ctx context.Context, id string) (*Volume, error) {
	if id == "" {
		return nil, fmt.Errorf("volume id is required")
	}

	c.rateLimiter.wait()

	detailURL := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(id))
	if c.apiKey != "" {
		detailURL += "?key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch volume: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("volume not found: %s", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var volume Volume
	if err := json.NewDecoder(resp.Body).Decode(&volume); err != nil {
		return nil, fmt.Errorf("decode volume response: %w", err)
	}

	return &volume, nil
}

const userAgent = "Bookmart/1.0 (https://github.com/avolkau/bookmart)"

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/veridict/internal/cache"
	"github.com/ppiankov/veridict/internal/model"
)

const userAgent = "veridict/0.1 (+https://github.com/ppiankov/veridict)"

// Client calls a Perplexity-style search endpoint: POST {"query": ...}
// with bearer auth, returning ranked results. Outbound calls go through a
// token-bucket rate limiter; responses are cached so identical queries
// within the TTL do not hit the provider again.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewClient creates a search client from config. The cache may be nil
// (caching disabled).
func NewClient(cfg model.SearchConfig, responseCache cache.Cache) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			// Per-call deadlines come from the gatherer's context; this is
			// only a hard backstop against a hung provider.
			Timeout: 2 * time.Minute,
		},
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		cache:    responseCache,
		cacheTTL: cfg.CacheTTL,
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

// Search executes one query. The cache is consulted first, so cached
// hits consume no limiter tokens.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	key := cache.Key(query)
	if c.cache != nil {
		if data, found := c.cache.Get(key); found {
			var cached []model.SearchResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return clip(cached, maxResults), nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		msg := string(detail)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			msg = "authentication failed, check the API key"
		case http.StatusTooManyRequests:
			msg = "rate limit exceeded"
		}
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ProviderError{Message: fmt.Sprintf("decode response: %v", err)}
	}

	results := make([]model.SearchResult, 0, len(parsed.Results))
	for i, r := range parsed.Results {
		results = append(results, model.SearchResult{
			Position: i + 1,
			Title:    r.Title,
			URL:      r.URL,
			Domain:   DomainOf(r.URL),
			Snippet:  r.Snippet,
		})
	}

	if c.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			_ = c.cache.Set(key, data, c.cacheTTL)
		}
	}

	return clip(results, maxResults), nil
}

// DomainOf extracts the host from a result URL; empty when unparseable
func DomainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func clip(results []model.SearchResult, max int) []model.SearchResult {
	if len(results) > max {
		return results[:max]
	}
	return results
}

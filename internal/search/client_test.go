package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/veridict/internal/cache"
	"github.com/ppiankov/veridict/internal/model"
)

func testConfig(baseURL string) model.SearchConfig {
	return model.SearchConfig{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		MaxResults:        10,
		RequestsPerSecond: 100,
		Burst:             100,
		CacheTTL:          time.Minute,
	}
}

func TestClient_Search_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "great wall visible from space" {
			t.Errorf("unexpected query: %s", req.Query)
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]string{
				{"title": "NASA on the Great Wall", "url": "https://www.nasa.gov/wall", "snippet": "not visible"},
				{"title": "Some blog", "url": "https://blog.example.com/wall", "snippet": "totally visible"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	results, err := client.Search(context.Background(), "great wall visible from space", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Position != 1 || results[1].Position != 2 {
		t.Errorf("positions not 1-based: %+v", results)
	}
	if results[0].Domain != "www.nasa.gov" {
		t.Errorf("domain extraction failed: %s", results[0].Domain)
	}
}

func TestClient_Search_MaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := make([]map[string]string, 10)
		for i := range results {
			results[i] = map[string]string{"title": "t", "url": "https://example.com", "snippet": "s"}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"results": results})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	results, err := client.Search(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestClient_Search_ProviderErrors(t *testing.T) {
	tests := []struct {
		status int
	}{
		{http.StatusUnauthorized},
		{http.StatusTooManyRequests},
		{http.StatusInternalServerError},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		client := NewClient(testConfig(server.URL), nil)
		_, err := client.Search(context.Background(), "q", 5)
		server.Close()

		var provErr *ProviderError
		if !errors.As(err, &provErr) {
			t.Fatalf("status %d: expected *ProviderError, got %v", tt.status, err)
		}
		if provErr.StatusCode != tt.status {
			t.Errorf("expected status %d, got %d", tt.status, provErr.StatusCode)
		}
	}
}

func TestClient_Search_CacheHit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]string{
				{"title": "cached", "url": "https://example.com", "snippet": "s"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), cache.NewMemoryCache(time.Minute, time.Minute))

	for i := 0; i < 3; i++ {
		results, err := client.Search(context.Background(), "same query", 5)
		if err != nil {
			t.Fatalf("Search %d failed: %v", i, err)
		}
		if len(results) != 1 || results[0].Title != "cached" {
			t.Fatalf("unexpected results on call %d: %+v", i, results)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 provider call, got %d", got)
	}
}

func TestClient_Search_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := client.Search(ctx, "q", 5); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestDomainOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.nasa.gov/wall", "www.nasa.gov"},
		{"http://example.com:8080/a", "example.com:8080"},
		{"not a url", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DomainOf(tt.url); got != tt.want {
			t.Errorf("DomainOf(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

// Package search implements the outbound search capability used by the
// evidence gatherer.
package search

import (
	"context"
	"fmt"

	"github.com/ppiankov/veridict/internal/model"
)

// Provider executes one search query and returns ranked results.
// Implementations must be safe for concurrent use: the gatherer calls
// Search from multiple workers.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error)
}

// ProviderError is a failure reported by the search provider
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search provider: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("search provider: %s", e.Message)
}

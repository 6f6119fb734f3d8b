// Package cache caches search-provider responses so repeated verification
// runs over the same claims do not re-issue identical queries.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the caching interface
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a search query string
func Key(query string) string {
	hash := sha256.Sum256([]byte(query))
	return "veridict:search:v1:" + hex.EncodeToString(hash[:])
}

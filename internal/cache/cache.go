// Package cache stores serialized search responses and the product catalog
// snapshot, behind a Client interface with Redis and in-memory backends.
package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Client is the cache contract shared by the Redis and memory backends.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Close() error
}

// CacheKey joins key components with colons.
func CacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// SearchKeyPrefix is the shared prefix of every cached search response, used
// to invalidate them in one sweep when the catalog changes.
const SearchKeyPrefix = "search"

// SearchCacheKey builds the key for a cached search response. Coordinates
// are rounded to four decimals (roughly 11 m) so nearby callers share entries.
func SearchCacheKey(query, distance, price string, lat, lon float64) string {
	return CacheKey(SearchKeyPrefix, query, distance, price,
		strconv.FormatFloat(lat, 'f', 4, 64),
		strconv.FormatFloat(lon, 'f', 4, 64))
}

// CatalogCacheKey is the key holding the serialized product-name catalog.
func CatalogCacheKey() string {
	return CacheKey("catalog", "names")
}

// Package catalog maintains an in-memory snapshot of the known product
// names. The snapshot scopes every AI prompt so the models can only answer
// with products that actually exist.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dacsanviet/discovery-engine/internal/cache"
	"github.com/dacsanviet/discovery-engine/internal/observability"
)

// DefaultTTL is how long the cached catalog stays valid before a reload hits
// the database again.
const DefaultTTL = time.Hour

// Source supplies the catalog contents, typically storage.ProductRepository.
type Source interface {
	ListNames(ctx context.Context) ([]string, error)
}

// Snapshot holds the current product-name list behind a read lock. Reads are
// frequent (every AI prompt), refreshes rare.
type Snapshot struct {
	mu     sync.RWMutex
	names  []string
	source Source
	cache  cache.Client
	ttl    time.Duration
	logger *observability.Logger
}

// NewSnapshot wires a Snapshot. The cache client may be nil, in which case
// every Load goes straight to the source. A nil logger selects the default.
func NewSnapshot(source Source, cacheClient cache.Client, logger *observability.Logger) *Snapshot {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Snapshot{
		source: source,
		cache:  cacheClient,
		ttl:    DefaultTTL,
		logger: logger.WithOperation("catalog"),
	}
}

// Names returns the current product names. The returned slice is a copy;
// callers may hold it across a Refresh.
func (s *Snapshot) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of products in the snapshot.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// Load populates the snapshot, preferring the cache over the database.
func (s *Snapshot) Load(ctx context.Context) error {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cache.CatalogCacheKey()); err == nil {
			var names []string
			if err := json.Unmarshal(data, &names); err == nil && len(names) > 0 {
				s.replace(names)
				s.logger.Debug().Int("products", len(names)).Msg("catalog loaded from cache")
				return nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("catalog cache read failed")
		}
	}
	return s.Refresh(ctx)
}

// Refresh reloads the snapshot from the source, rewrites the cache entry,
// and drops cached search responses, which may reference products that no
// longer exist.
func (s *Snapshot) Refresh(ctx context.Context) error {
	names, err := s.source.ListNames(ctx)
	if err != nil {
		return fmt.Errorf("load product names: %w", err)
	}
	s.replace(names)

	if s.cache != nil {
		if data, err := json.Marshal(names); err == nil {
			if err := s.cache.Set(ctx, cache.CatalogCacheKey(), data, s.ttl); err != nil {
				s.logger.Warn().Err(err).Msg("catalog cache write failed")
			}
		}
		if err := s.cache.DeleteByPrefix(ctx, cache.SearchKeyPrefix); err != nil {
			s.logger.Warn().Err(err).Msg("search cache invalidation failed")
		}
	}

	s.logger.Info().Int("products", len(names)).Msg("catalog refreshed")
	return nil
}

func (s *Snapshot) replace(names []string) {
	s.mu.Lock()
	s.names = names
	s.mu.Unlock()
}

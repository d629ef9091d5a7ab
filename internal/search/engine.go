package search

import (
	"context"
	"sort"

	"github.com/dacsanviet/discovery-engine/internal/observability"
)

// QueryFixer corrects or translates a query that found nothing locally. It is
// best-effort: implementations return the original query on any failure and
// never return an error.
type QueryFixer interface {
	FixQuery(ctx context.Context, query string) string
}

// Engine ranks aggregated products against free-text queries, falling back to
// the query fixer when the local pass finds nothing.
type Engine struct {
	logger *observability.Logger
	fixer  QueryFixer
}

// NewEngine creates an engine. The fixer may be nil, in which case no
// fallback is attempted.
func NewEngine(logger *observability.Logger, fixer QueryFixer) *Engine {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Engine{logger: logger, fixer: fixer}
}

// Search scores every aggregated product against the query and returns the
// non-zero scorers, highest first. Ties are broken by raw product name so
// repeated calls rank identically. The aggregation is not modified.
func (e *Engine) Search(query string, pm *ProductMap) []ScoredProduct {
	var scored []ScoredProduct
	for _, product := range pm.Products() {
		score := Score(query, product.Product.Name)
		if score > 0 {
			scored = append(scored, ScoredProduct{Product: product, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Product.Product.Name < scored[j].Product.Product.Name
	})
	return scored
}

// SearchByTag ranks products with the additive tag scorer: the keyword is
// compared against the name and its tag set, where the curated tag column
// joins the tags generated from the name. Catches keyword-style queries the
// primary tiers reject.
func (e *Engine) SearchByTag(keyword string, pm *ProductMap) []ScoredProduct {
	var scored []ScoredProduct
	for _, product := range pm.Products() {
		tagged := NewTaggedName(product.Product.Name, SplitTags(product.Product.Tag)...)
		if score := TagScore(keyword, tagged); score > 0 {
			scored = append(scored, ScoredProduct{Product: product, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Product.Product.Name < scored[j].Product.Product.Name
	})
	return scored
}

// searchLocal runs the primary pass and, when it misses, the tag pass. Both
// are cheap in-memory scans, so trying them both costs far less than the
// provider round trip the fallback would make.
func (e *Engine) searchLocal(query string, pm *ProductMap) []ScoredProduct {
	if results := e.Search(query, pm); len(results) > 0 {
		return results
	}
	return e.SearchByTag(query, pm)
}

// SearchWithFallback runs the local passes; when both find nothing it asks
// the query fixer for a corrected query once and retries. A second empty
// result is final; there is no further retry.
func (e *Engine) SearchWithFallback(ctx context.Context, query string, pm *ProductMap) []ScoredProduct {
	results := e.searchLocal(query, pm)
	if len(results) > 0 || e.fixer == nil {
		return results
	}

	fixed := e.fixer.FixQuery(ctx, query)
	if fixed == "" {
		return nil
	}

	e.logger.Info().
		Str("query", query).
		Str("fixed_query", fixed).
		Msg("Local search empty, retrying with fixed query")

	return e.searchLocal(fixed, pm)
}

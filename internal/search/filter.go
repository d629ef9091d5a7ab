package search

import "math"

// PriceBracket is a named price range used for result filtering. The request
// layer passes the bracket identifier straight through from the client.
type PriceBracket struct {
	Low  float64
	High float64
}

// priceBrackets maps the bracket identifiers exposed by the API to VND
// ranges. Bracket 6 is open-ended.
var priceBrackets = map[string]PriceBracket{
	"1": {0, 50_000},
	"2": {50_000, 100_000},
	"3": {100_000, 200_000},
	"4": {200_000, 500_000},
	"5": {500_000, 1_000_000},
	"6": {1_000_000, math.Inf(1)},
}

// BracketByID returns the price bracket for an identifier.
func BracketByID(id string) (PriceBracket, bool) {
	b, ok := priceBrackets[id]
	return b, ok
}

// FilterByDistance keeps only stores whose computed distance is known and at
// most maxKm, then drops products left with no stores. Ranking order is
// preserved and the input products are not mutated: surviving entries carry a
// fresh store slice.
func FilterByDistance(products []ScoredProduct, maxKm float64) []ScoredProduct {
	return filterStores(products, func(s *StoreView) bool {
		return s.DistanceKm != nil && *s.DistanceKm <= maxKm
	})
}

// FilterByPrice keeps only stores whose price interval overlaps the bracket:
// either endpoint falls inside it, or the store's interval contains the
// bracket entirely. Stores without price data are dropped, then products left
// with no stores. An unknown bracket id leaves the input untouched.
func FilterByPrice(products []ScoredProduct, bracketID string) []ScoredProduct {
	bracket, ok := BracketByID(bracketID)
	if !ok {
		return products
	}
	return filterStores(products, func(s *StoreView) bool {
		if s.MinPrice == nil || s.MaxPrice == nil {
			return false
		}
		lo, hi := float64(*s.MinPrice), float64(*s.MaxPrice)
		return (bracket.Low <= lo && lo <= bracket.High) ||
			(bracket.Low <= hi && hi <= bracket.High) ||
			(lo <= bracket.Low && hi >= bracket.High)
	})
}

// filterStores rebuilds each product with the stores passing keep, dropping
// products that end up store-less. Shared AggregatedProducts are shallow
// copied so the aggregation itself stays untouched.
func filterStores(products []ScoredProduct, keep func(*StoreView) bool) []ScoredProduct {
	filtered := make([]ScoredProduct, 0, len(products))
	for _, sp := range products {
		var stores []*StoreView
		for _, store := range sp.Product.Stores {
			if keep(store) {
				stores = append(stores, store)
			}
		}
		if len(stores) == 0 {
			continue
		}

		copied := *sp.Product
		copied.Stores = stores
		filtered = append(filtered, ScoredProduct{Product: &copied, Score: sp.Score})
	}
	return filtered
}

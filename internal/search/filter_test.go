package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(f float64) *float64 { return &f }
func ip(n int) *int         { return &n }

func scoredProduct(name string, stores ...*StoreView) ScoredProduct {
	return ScoredProduct{
		Product: &AggregatedProduct{
			Product: ProductInfo{ID: 1, Name: name},
			Stores:  stores,
		},
		Score: ScoreSubsequence,
	}
}

func TestFilterByDistance(t *testing.T) {
	near := &StoreView{ID: 1, DistanceKm: fp(2.5)}
	far := &StoreView{ID: 2, DistanceKm: fp(8.0)}
	unknown := &StoreView{ID: 3}

	results := FilterByDistance([]ScoredProduct{scoredProduct("Bánh mì", near, far, unknown)}, 5)

	require.Len(t, results, 1)
	require.Len(t, results[0].Product.Stores, 1)
	assert.Equal(t, int64(1), results[0].Product.Stores[0].ID)
}

func TestFilterByDistanceDropsStorelessProducts(t *testing.T) {
	far := &StoreView{ID: 2, DistanceKm: fp(8.0)}
	results := FilterByDistance([]ScoredProduct{scoredProduct("Bánh mì", far)}, 5)
	assert.Empty(t, results)
}

func TestFilterByDistanceDoesNotMutateInput(t *testing.T) {
	near := &StoreView{ID: 1, DistanceKm: fp(2.5)}
	far := &StoreView{ID: 2, DistanceKm: fp(8.0)}
	input := []ScoredProduct{scoredProduct("Bánh mì", near, far)}

	_ = FilterByDistance(input, 5)

	assert.Len(t, input[0].Product.Stores, 2, "aggregation must stay untouched")
}

func TestFilterByPrice(t *testing.T) {
	tests := []struct {
		name     string
		store    *StoreView
		bracket  string
		survives bool
	}{
		{"overlapping upper bound", &StoreView{ID: 1, MinPrice: ip(80_000), MaxPrice: ip(120_000)}, "2", true},
		{"fully inside", &StoreView{ID: 2, MinPrice: ip(60_000), MaxPrice: ip(90_000)}, "2", true},
		{"contains bracket", &StoreView{ID: 3, MinPrice: ip(10_000), MaxPrice: ip(500_000)}, "2", true},
		{"entirely above", &StoreView{ID: 4, MinPrice: ip(200_000), MaxPrice: ip(300_000)}, "2", false},
		{"entirely below", &StoreView{ID: 5, MinPrice: ip(10_000), MaxPrice: ip(20_000)}, "2", false},
		{"missing price data", &StoreView{ID: 6}, "2", false},
		{"open-ended top bracket", &StoreView{ID: 7, MinPrice: ip(2_000_000), MaxPrice: ip(3_000_000)}, "6", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			results := FilterByPrice([]ScoredProduct{scoredProduct("Bánh mì", tc.store)}, tc.bracket)
			if tc.survives {
				require.Len(t, results, 1)
				assert.Len(t, results[0].Product.Stores, 1)
			} else {
				assert.Empty(t, results)
			}
		})
	}
}

func TestFilterByPriceUnknownBracket(t *testing.T) {
	input := []ScoredProduct{scoredProduct("Bánh mì", &StoreView{ID: 1})}
	assert.Equal(t, input, FilterByPrice(input, "99"))
}

func TestFiltersPreserveRanking(t *testing.T) {
	first := scoredProduct("Bánh mì", &StoreView{ID: 1, DistanceKm: fp(1)})
	second := scoredProduct("Kẹo dừa", &StoreView{ID: 2, DistanceKm: fp(2)})
	second.Score = 900
	first.Score = 1000

	results := FilterByDistance([]ScoredProduct{first, second}, 5)

	require.Len(t, results, 2)
	assert.Equal(t, "Bánh mì", results[0].Product.Product.Name)
	assert.Equal(t, "Kẹo dừa", results[1].Product.Product.Name)
}

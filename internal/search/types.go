// Package search implements the fuzzy product search engine: row aggregation,
// relevance scoring, ranking, and result filtering.
package search

// ProductInfo carries the product columns of the search join.
type ProductInfo struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	LocationID  int64
	Tag         string
}

// LocationInfo carries the owning region of a product.
type LocationInfo struct {
	ID      int64
	Name    string
	MinLat  float64
	MaxLat  float64
	MinLong float64
	MaxLong float64
}

// ImageView is one product image attached to a product-store association.
type ImageView struct {
	PSID int64
	ID   int64
	URL  string
	Type int64
}

// StoreView is a store selling a product, with the request-scoped distance
// and the normalized price fields derived from the association's cost string.
type StoreView struct {
	ID         int64
	Name       string
	Address    string
	Lat        *float64
	Long       *float64
	DistanceKm *float64
	MinPrice   *int
	MaxPrice   *int
	Cost       *int
	Images     []ImageView
}

// AggregatedProduct groups one product with its region and every store
// selling it. Built fresh per request and treated as immutable afterwards;
// scoring and filtering never write through it.
type AggregatedProduct struct {
	Product  ProductInfo
	Location LocationInfo
	Stores   []*StoreView
}

// ProductMap is the aggregation result: one AggregatedProduct per distinct
// product id, retaining first-seen order for deterministic iteration.
type ProductMap struct {
	byID  map[int64]*AggregatedProduct
	order []int64
}

// NewProductMap returns an empty ProductMap.
func NewProductMap() *ProductMap {
	return &ProductMap{byID: make(map[int64]*AggregatedProduct)}
}

// Get returns the entry for a product id, or nil.
func (m *ProductMap) Get(productID int64) *AggregatedProduct {
	return m.byID[productID]
}

// Len returns the number of distinct products.
func (m *ProductMap) Len() int {
	return len(m.order)
}

// Products returns the aggregated products in first-seen order.
func (m *ProductMap) Products() []*AggregatedProduct {
	products := make([]*AggregatedProduct, 0, len(m.order))
	for _, id := range m.order {
		products = append(products, m.byID[id])
	}
	return products
}

func (m *ProductMap) add(id int64, p *AggregatedProduct) {
	m.byID[id] = p
	m.order = append(m.order, id)
}

// ScoredProduct pairs an aggregated product with its relevance score. The
// underlying AggregatedProduct is shared, not copied; immutability of the
// aggregation is what keeps concurrent requests isolated.
type ScoredProduct struct {
	Product *AggregatedProduct
	Score   int
}

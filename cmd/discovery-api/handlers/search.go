package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dacsanviet/discovery-engine/internal/cache"
	"github.com/dacsanviet/discovery-engine/internal/geo"
	"github.com/dacsanviet/discovery-engine/internal/observability"
	"github.com/dacsanviet/discovery-engine/internal/search"
	"github.com/dacsanviet/discovery-engine/internal/storage"
)

const defaultProductImage = "image/products/default.jpg"

// SearchOptions tunes the search handler.
type SearchOptions struct {
	DefaultLat   float64
	DefaultLon   float64
	CacheResults bool
	CacheTTL     time.Duration
}

// RowSource fetches the flat search join, typically storage.SearchRepository.
type RowSource interface {
	FetchJoinRows(ctx context.Context) ([]storage.FlatJoinRow, error)
}

// SearchHandler serves the product search endpoint.
type SearchHandler struct {
	logger *observability.Logger
	rows   RowSource
	engine *search.Engine
	cache  cache.Client
	opts   SearchOptions
}

// NewSearchHandler creates a search handler. The cache client may be nil.
func NewSearchHandler(logger *observability.Logger, rows RowSource, engine *search.Engine, cacheClient cache.Client, opts SearchOptions) *SearchHandler {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &SearchHandler{
		logger: logger,
		rows:   rows,
		engine: engine,
		cache:  cacheClient,
		opts:   opts,
	}
}

// ProductDTO is one product in the search response.
type ProductDTO struct {
	ProductID       int64      `json:"product_id"`
	ProductName     string     `json:"product_name"`
	ProductDes      string     `json:"product_des"`
	ProductImageURL string     `json:"product_image_url"`
	LocationName    string     `json:"location_name"`
	Stores          []StoreDTO `json:"stores"`
}

// StoreDTO is one store selling a product.
type StoreDTO struct {
	StoreID       int64      `json:"store_id"`
	StoreName     string     `json:"store_name"`
	StoreAddress  string     `json:"store_address"`
	StoreLat      *float64   `json:"store_lat"`
	StoreLong     *float64   `json:"store_long"`
	DistanceKm    *float64   `json:"distance_km"`
	MinPrice      *int       `json:"min_price"`
	MaxPrice      *int       `json:"max_price"`
	Cost          *int       `json:"cost"`
	ProductImages []ImageDTO `json:"product_images"`
}

// ImageDTO is one image attached to a product-store association.
type ImageDTO struct {
	PSID       int64  `json:"ps_id"`
	PSImageID  int64  `json:"ps_image_id"`
	PSImageURL string `json:"ps_image_url"`
	PSType     int64  `json:"ps_type"`
}

// List handles GET /api/products. Query parameters: search, distance, price,
// lat, lon. Without a search term every product is returned; distance and
// price filters apply either way.
func (h *SearchHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	searchText := q.Get("search")
	distanceFilter := q.Get("distance")
	priceFilter := q.Get("price")

	lat, err := parseCoord(q.Get("lat"), h.opts.DefaultLat)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lat", err.Error())
		return
	}
	lon, err := parseCoord(q.Get("lon"), h.opts.DefaultLon)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lon", err.Error())
		return
	}

	var maxDistanceKm float64
	if distanceFilter != "" {
		maxDistanceKm, err = strconv.ParseFloat(distanceFilter, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid distance", err.Error())
			return
		}
	}

	cacheKey := cache.SearchCacheKey(searchText, distanceFilter, priceFilter, lat, lon)
	if h.cache != nil && h.opts.CacheResults {
		if data, err := h.cache.Get(ctx, cacheKey); err == nil {
			writeRawJSON(w, http.StatusOK, data)
			return
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn().Err(err).Msg("search cache read failed")
		}
	}

	rows, err := h.rows.FetchJoinRows(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("fetch join rows failed")
		writeError(w, http.StatusInternalServerError, "database error", err.Error())
		return
	}

	caller := geo.Point{Lat: lat, Lon: lon}
	pm := search.Aggregate(rows, &caller)

	var results []search.ScoredProduct
	if searchText != "" {
		results = h.engine.SearchWithFallback(ctx, searchText, pm)
	} else {
		for _, product := range pm.Products() {
			results = append(results, search.ScoredProduct{Product: product})
		}
	}

	if distanceFilter != "" {
		results = search.FilterByDistance(results, maxDistanceKm)
	}
	if priceFilter != "" {
		results = search.FilterByPrice(results, priceFilter)
	}

	products := make([]ProductDTO, 0, len(results))
	for _, sp := range results {
		products = append(products, toProductDTO(sp.Product))
	}

	h.logger.Info().
		Str("search", searchText).
		Str("distance", distanceFilter).
		Str("price", priceFilter).
		Int("results", len(products)).
		Msg("product search served")

	if h.cache != nil && h.opts.CacheResults {
		if data, err := json.Marshal(products); err == nil {
			if err := h.cache.Set(ctx, cacheKey, data, h.opts.CacheTTL); err != nil {
				h.logger.Warn().Err(err).Msg("search cache write failed")
			}
		}
	}

	writeJSON(w, http.StatusOK, products)
}

func toProductDTO(p *search.AggregatedProduct) ProductDTO {
	imageURL := p.Product.ImageURL
	if imageURL == "" {
		imageURL = defaultProductImage
	}

	stores := make([]StoreDTO, 0, len(p.Stores))
	for _, s := range p.Stores {
		images := make([]ImageDTO, 0, len(s.Images))
		for _, img := range s.Images {
			images = append(images, ImageDTO{
				PSID:       img.PSID,
				PSImageID:  img.ID,
				PSImageURL: img.URL,
				PSType:     img.Type,
			})
		}
		stores = append(stores, StoreDTO{
			StoreID:       s.ID,
			StoreName:     s.Name,
			StoreAddress:  s.Address,
			StoreLat:      s.Lat,
			StoreLong:     s.Long,
			DistanceKm:    s.DistanceKm,
			MinPrice:      s.MinPrice,
			MaxPrice:      s.MaxPrice,
			Cost:          s.Cost,
			ProductImages: images,
		})
	}

	return ProductDTO{
		ProductID:       p.Product.ID,
		ProductName:     p.Product.Name,
		ProductDes:      p.Product.Description,
		ProductImageURL: imageURL,
		LocationName:    p.Location.Name,
		Stores:          stores,
	}
}

func parseCoord(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

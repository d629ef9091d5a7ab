package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dacsanviet/discovery-engine/internal/observability"
	"github.com/dacsanviet/discovery-engine/internal/storage"
	"github.com/dacsanviet/discovery-engine/internal/vntext"
)

// LocationSource resolves regions, typically storage.LocationRepository.
type LocationSource interface {
	FindByPoint(ctx context.Context, lat, lon float64) (*storage.Location, error)
	List(ctx context.Context) ([]storage.Location, error)
}

// RegionProductSource lists products per region, typically
// storage.ProductRepository.
type RegionProductSource interface {
	ListByLocation(ctx context.Context, locationID int64) ([]storage.Product, error)
}

// SuggestHandler recommends a region's local products from a city name or a
// coordinate.
type SuggestHandler struct {
	logger    *observability.Logger
	locations LocationSource
	products  RegionProductSource
}

// NewSuggestHandler creates a suggest handler.
func NewSuggestHandler(logger *observability.Logger, locations LocationSource, products RegionProductSource) *SuggestHandler {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &SuggestHandler{
		logger:    logger,
		locations: locations,
		products:  products,
	}
}

// suggestRequest accepts either a city name or a coordinate pair. The
// alternate key spellings mirror what existing clients send.
type suggestRequest struct {
	City      string   `json:"city"`
	Location  string   `json:"location"`
	Province  string   `json:"province"`
	Lat       *float64 `json:"lat"`
	Latitude  *float64 `json:"latitude"`
	Lon       *float64 `json:"lon"`
	Longitude *float64 `json:"longitude"`
	Limit     int      `json:"limit"`
}

func (r suggestRequest) cityName() string {
	for _, v := range []string{r.City, r.Location, r.Province} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (r suggestRequest) coords() (lat, lon float64, ok bool) {
	latPtr := r.Lat
	if latPtr == nil {
		latPtr = r.Latitude
	}
	lonPtr := r.Lon
	if lonPtr == nil {
		lonPtr = r.Longitude
	}
	if latPtr == nil || lonPtr == nil {
		return 0, 0, false
	}
	return *latPtr, *lonPtr, true
}

// suggestProductDTO is one product in the suggestion response.
type suggestProductDTO struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
}

type suggestResponse struct {
	City     string              `json:"city"`
	Count    int                 `json:"count"`
	Products []suggestProductDTO `json:"products"`
}

// Suggest handles POST /api/suggest/products. The body names a city or
// carries a coordinate; the response lists the region's products.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var region *storage.Location
	if city := req.cityName(); city != "" {
		found, err := h.findByCityName(ctx, city)
		if err != nil {
			h.logger.Error().Err(err).Msg("list locations failed")
			writeError(w, http.StatusInternalServerError, "database error", err.Error())
			return
		}
		if found == nil {
			writeError(w, http.StatusNotFound, "unknown city", "no region matches "+city)
			return
		}
		region = found
	} else {
		lat, lon, ok := req.coords()
		if !ok {
			writeError(w, http.StatusBadRequest, "city or coordinates required", "")
			return
		}
		found, err := h.locations.FindByPoint(ctx, lat, lon)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no region covers the coordinates", "")
			return
		}
		if err != nil {
			h.logger.Error().Err(err).Msg("locate region failed")
			writeError(w, http.StatusInternalServerError, "database error", err.Error())
			return
		}
		region = found
	}

	products, err := h.products.ListByLocation(ctx, region.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list region products failed")
		writeError(w, http.StatusInternalServerError, "database error", err.Error())
		return
	}

	items := make([]suggestProductDTO, 0, len(products))
	for _, p := range products {
		items = append(items, suggestProductDTO{
			ProductID: p.ID,
			Name:      p.Name,
			ImageURL:  p.ImageURL,
		})
	}
	if req.Limit > 0 && req.Limit < len(items) {
		items = items[:req.Limit]
	}

	h.logger.WithRegion(region.Name).Info().
		Int("products", len(items)).
		Msg("region suggestion served")

	writeJSON(w, http.StatusOK, suggestResponse{
		City:     region.Name,
		Count:    len(items),
		Products: items,
	})
}

// findByCityName matches the requested city against the known regions using
// accent-free containment in either direction, so "TP. Hồ Chí Minh" finds
// the region stored as "Hồ Chí Minh".
func (h *SuggestHandler) findByCityName(ctx context.Context, city string) (*storage.Location, error) {
	normalized := vntext.NormalizeCityName(city)
	if normalized == "" {
		return nil, nil
	}

	locations, err := h.locations.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range locations {
		candidate := vntext.NormalizeCityName(locations[i].Name)
		if candidate == "" {
			continue
		}
		if strings.Contains(normalized, candidate) || strings.Contains(candidate, normalized) {
			return &locations[i], nil
		}
	}
	return nil, nil
}

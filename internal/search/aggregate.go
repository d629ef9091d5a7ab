package search

import (
	"github.com/dacsanviet/discovery-engine/internal/geo"
	"github.com/dacsanviet/discovery-engine/internal/pricing"
	"github.com/dacsanviet/discovery-engine/internal/storage"
)

// Aggregate folds the flat search join into one AggregatedProduct per
// distinct product id, in a single pass over the rows in input order.
// Stores are deduplicated by store id within a product, images by image id
// within a store. Distance is computed only when both the caller coordinate
// and the store coordinate are known. Rows without a store still create the
// product entry.
func Aggregate(rows []storage.FlatJoinRow, caller *geo.Point) *ProductMap {
	pm := NewProductMap()

	for i := range rows {
		row := &rows[i]

		product := pm.Get(row.ProductID)
		if product == nil {
			product = &AggregatedProduct{
				Product: ProductInfo{
					ID:          row.ProductID,
					Name:        row.ProductName,
					Description: row.ProductDes.String,
					ImageURL:    row.ProductImageURL.String,
					LocationID:  row.ProductLocationID.Int64,
					Tag:         row.ProductTag.String,
				},
				Location: LocationInfo{
					ID:      row.LocationID.Int64,
					Name:    row.LocationName.String,
					MinLat:  row.LocationMinLat.Float64,
					MaxLat:  row.LocationMaxLat.Float64,
					MinLong: row.LocationMinLong.Float64,
					MaxLong: row.LocationMaxLong.Float64,
				},
			}
			pm.add(row.ProductID, product)
		}

		if !row.StoreID.Valid {
			continue
		}

		store := findStore(product.Stores, row.StoreID.Int64)
		if store == nil {
			store = buildStore(row, caller)
			product.Stores = append(product.Stores, store)
		}

		if row.ImageURL.Valid && !hasImage(store.Images, row.ImageID.Int64) {
			store.Images = append(store.Images, ImageView{
				PSID: row.PSID.Int64,
				ID:   row.ImageID.Int64,
				URL:  row.ImageURL.String,
				Type: row.ImgType.Int64,
			})
		}
	}

	return pm
}

// findStore scans a product's store list for a store id. The lists are small
// enough that a linear scan beats a per-product index.
func findStore(stores []*StoreView, storeID int64) *StoreView {
	for _, s := range stores {
		if s.ID == storeID {
			return s
		}
	}
	return nil
}

func hasImage(images []ImageView, imageID int64) bool {
	for _, img := range images {
		if img.ID == imageID {
			return true
		}
	}
	return false
}

func buildStore(row *storage.FlatJoinRow, caller *geo.Point) *StoreView {
	store := &StoreView{
		ID:      row.StoreID.Int64,
		Name:    row.StoreName.String,
		Address: row.StoreAddress.String,
	}

	if row.StoreLat.Valid {
		lat := row.StoreLat.Float64
		store.Lat = &lat
	}
	if row.StoreLong.Valid {
		long := row.StoreLong.Float64
		store.Long = &long
	}

	if caller != nil && store.Lat != nil && store.Long != nil {
		d := geo.DistanceKm(caller.Lat, caller.Lon, *store.Lat, *store.Long)
		store.DistanceKm = &d
	}

	if row.PSCost.Valid {
		price := pricing.Parse(row.PSCost.String)
		store.MinPrice = price.Min
		store.MaxPrice = price.Max
		store.Cost = price.Fixed
	}

	return store
}

// Package storage provides database models and repositories for the
// discovery engine.
package storage

import "database/sql"

// Location is a region that owns products, with a bounding box used to
// reverse-geocode a coordinate.
type Location struct {
	ID      int64
	Name    string
	MinLat  float64
	MaxLat  float64
	MinLong float64
	MaxLong float64
}

// Product is a catalog entry owned by a location.
type Product struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	LocationID  int64
	Tag         string
}

// Store is a physical point of sale.
type Store struct {
	ID      int64
	Name    string
	Address string
	Lat     float64
	Long    float64
}

// FlatJoinRow is one row of the wide search join across product, location,
// product_store, store, and product_images. Outer joins leave the store and
// image columns null, so those are decoded into sql.Null values once at this
// boundary rather than passed around as column-keyed maps.
type FlatJoinRow struct {
	ProductID         int64
	ProductName       string
	ProductDes        sql.NullString
	ProductImageURL   sql.NullString
	ProductLocationID sql.NullInt64
	ProductTag        sql.NullString

	LocationID      sql.NullInt64
	LocationName    sql.NullString
	LocationMaxLong sql.NullFloat64
	LocationMinLong sql.NullFloat64
	LocationMaxLat  sql.NullFloat64
	LocationMinLat  sql.NullFloat64

	StoreID      sql.NullInt64
	StoreName    sql.NullString
	StoreAddress sql.NullString
	StoreLat     sql.NullFloat64
	StoreLong    sql.NullFloat64

	PSID   sql.NullInt64
	PSCost sql.NullString

	ImageID  sql.NullInt64
	ImageURL sql.NullString
	ImgType  sql.NullInt64
}

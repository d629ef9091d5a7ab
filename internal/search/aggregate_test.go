package search

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dacsanviet/discovery-engine/internal/geo"
	"github.com/dacsanviet/discovery-engine/internal/storage"
)

func ns(s string) sql.NullString   { return sql.NullString{String: s, Valid: true} }
func ni(n int64) sql.NullInt64     { return sql.NullInt64{Int64: n, Valid: true} }
func nf(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

// joinRow builds a row for product 1 sold at the given store with an
// optional image.
func joinRow(productID, storeID, imageID int64, cost string) storage.FlatJoinRow {
	row := storage.FlatJoinRow{
		ProductID:         productID,
		ProductName:       "Bánh mì",
		ProductDes:        ns("banh mi truyen thong"),
		ProductImageURL:   ns("image/products/banhmi.jpg"),
		ProductLocationID: ni(10),
		ProductTag:        ns("banh"),
		LocationID:        ni(10),
		LocationName:      ns("Hà Nội"),
		LocationMinLat:    nf(20.5),
		LocationMaxLat:    nf(21.4),
		LocationMinLong:   nf(105.3),
		LocationMaxLong:   nf(106.0),
	}
	if storeID != 0 {
		row.StoreID = ni(storeID)
		row.StoreName = ns("store")
		row.StoreAddress = ns("addr")
		row.StoreLat = nf(21.03)
		row.StoreLong = nf(105.85)
		row.PSID = ni(storeID * 100)
		row.PSCost = ns(cost)
	}
	if imageID != 0 {
		row.ImageID = ni(imageID)
		row.ImageURL = ns("image/stores/img.jpg")
		row.ImgType = ni(1)
	}
	return row
}

func TestAggregateSameStoreTwoImages(t *testing.T) {
	rows := []storage.FlatJoinRow{
		joinRow(1, 7, 100, "50000"),
		joinRow(1, 7, 101, "50000"),
	}

	pm := Aggregate(rows, nil)

	require.Equal(t, 1, pm.Len())
	product := pm.Get(1)
	require.NotNil(t, product)
	require.Len(t, product.Stores, 1, "same store must not be duplicated")
	assert.Len(t, product.Stores[0].Images, 2)
}

func TestAggregateDuplicateImageID(t *testing.T) {
	rows := []storage.FlatJoinRow{
		joinRow(1, 7, 100, "50000"),
		joinRow(1, 7, 100, "50000"),
	}

	pm := Aggregate(rows, nil)
	require.Len(t, pm.Get(1).Stores[0].Images, 1, "images must be deduplicated by id")
}

func TestAggregateNullStore(t *testing.T) {
	rows := []storage.FlatJoinRow{joinRow(1, 0, 0, "")}

	pm := Aggregate(rows, nil)

	require.Equal(t, 1, pm.Len())
	product := pm.Get(1)
	require.NotNil(t, product)
	assert.Empty(t, product.Stores)
	assert.Equal(t, "Bánh mì", product.Product.Name)
	assert.Equal(t, "Hà Nội", product.Location.Name)
}

func TestAggregateDistance(t *testing.T) {
	rows := []storage.FlatJoinRow{joinRow(1, 7, 0, "50000")}

	t.Run("with caller coordinates", func(t *testing.T) {
		caller := &geo.Point{Lat: 21.0285, Lon: 105.8542}
		pm := Aggregate(rows, caller)
		store := pm.Get(1).Stores[0]
		require.NotNil(t, store.DistanceKm)
		assert.Less(t, *store.DistanceKm, 5.0)
	})

	t.Run("without caller coordinates", func(t *testing.T) {
		pm := Aggregate(rows, nil)
		assert.Nil(t, pm.Get(1).Stores[0].DistanceKm)
	})

	t.Run("store without coordinates", func(t *testing.T) {
		row := joinRow(1, 7, 0, "50000")
		row.StoreLat = sql.NullFloat64{}
		row.StoreLong = sql.NullFloat64{}
		pm := Aggregate([]storage.FlatJoinRow{row}, &geo.Point{Lat: 21.0, Lon: 105.8})
		assert.Nil(t, pm.Get(1).Stores[0].DistanceKm)
	})
}

func TestAggregatePriceFields(t *testing.T) {
	rows := []storage.FlatJoinRow{joinRow(1, 7, 0, "50.000 – 100.000")}

	store := Aggregate(rows, nil).Get(1).Stores[0]
	require.NotNil(t, store.MinPrice)
	require.NotNil(t, store.MaxPrice)
	require.NotNil(t, store.Cost)
	assert.Equal(t, 50000, *store.MinPrice)
	assert.Equal(t, 100000, *store.MaxPrice)
	assert.Equal(t, 50000, *store.Cost)
}

func TestAggregateUnparseableCost(t *testing.T) {
	rows := []storage.FlatJoinRow{joinRow(1, 7, 0, "liên hệ")}

	store := Aggregate(rows, nil).Get(1).Stores[0]
	assert.Nil(t, store.MinPrice)
	assert.Nil(t, store.MaxPrice)
	assert.Nil(t, store.Cost)
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	rowA := joinRow(2, 0, 0, "")
	rowA.ProductName = "Kẹo dừa"
	rowB := joinRow(1, 0, 0, "")

	pm := Aggregate([]storage.FlatJoinRow{rowA, rowB}, nil)
	products := pm.Products()
	require.Len(t, products, 2)
	assert.Equal(t, int64(2), products[0].Product.ID)
	assert.Equal(t, int64(1), products[1].Product.ID)
}

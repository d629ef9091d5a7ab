package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrNotFound = errors.New("record not found")
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Open opens a database handle for the configured driver. Supported drivers
// are "sqlite3" and "postgres".
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return db, nil
}

// searchJoinQuery is the wide join feeding the aggregator: one row per
// product x store x image, outer-joined so products without stores survive.
const searchJoinQuery = `
	SELECT
		p.product_id,
		p.name AS product_name,
		p.des AS product_des,
		p.image_url AS product_image_url,
		p.location_id AS product_location_id,
		p.tag AS product_tag,

		l.location_id,
		l.name AS location_name,
		l.max_long AS location_max_long,
		l.min_long AS location_min_long,
		l.max_lat AS location_max_lat,
		l.min_lat AS location_min_lat,

		s.store_id,
		s.name AS store_name,
		s.address AS store_address,
		s.lat AS store_lat,
		s.long AS store_long,

		ps.ps_id,
		ps.cost AS ps_cost,

		pi.image_id AS ps_image_id,
		pi.image_url AS ps_image_url,
		pi.type AS ps_type
	FROM product p
	LEFT JOIN location l ON p.location_id = l.location_id
	LEFT JOIN product_store ps ON ps.product_id = p.product_id
	LEFT JOIN store s ON ps.store_id = s.store_id
	LEFT JOIN product_images pi ON pi.ps_id = ps.ps_id
	ORDER BY p.product_id, s.store_id, pi.image_id
`

// SearchRepository produces the flat join rows consumed by the search engine.
type SearchRepository struct {
	db DB
}

// NewSearchRepository creates a new search repository.
func NewSearchRepository(db DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// FetchJoinRows returns the full denormalized product/store/image join.
func (r *SearchRepository) FetchJoinRows(ctx context.Context) ([]FlatJoinRow, error) {
	rows, err := r.db.QueryContext(ctx, searchJoinQuery)
	if err != nil {
		return nil, fmt.Errorf("query search join: %w", err)
	}
	defer rows.Close()

	var result []FlatJoinRow
	for rows.Next() {
		var row FlatJoinRow
		if err := rows.Scan(
			&row.ProductID, &row.ProductName, &row.ProductDes, &row.ProductImageURL,
			&row.ProductLocationID, &row.ProductTag,
			&row.LocationID, &row.LocationName,
			&row.LocationMaxLong, &row.LocationMinLong, &row.LocationMaxLat, &row.LocationMinLat,
			&row.StoreID, &row.StoreName, &row.StoreAddress, &row.StoreLat, &row.StoreLong,
			&row.PSID, &row.PSCost,
			&row.ImageID, &row.ImageURL, &row.ImgType,
		); err != nil {
			return nil, fmt.Errorf("scan search join row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ProductRepository handles product reads.
type ProductRepository struct {
	db DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListNames returns all distinct, trimmed, non-empty product names. This is
// the catalog source for AI prompt construction.
func (r *ProductRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM product`)
	if err != nil {
		return nil, fmt.Errorf("query product names: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	var names []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan product name: %w", err)
		}
		trimmed := strings.TrimSpace(name.String)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		names = append(names, trimmed)
	}
	return names, rows.Err()
}

// ListByLocation returns the products owned by a region, ordered by name.
func (r *ProductRepository) ListByLocation(ctx context.Context, locationID int64) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, des, image_url, location_id, tag
		FROM product
		WHERE location_id = $1
		ORDER BY name
	`, locationID)
	if err != nil {
		return nil, fmt.Errorf("query products by location: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var (
			p   Product
			des sql.NullString
			img sql.NullString
			tag sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &des, &img, &p.LocationID, &tag); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Description = des.String
		p.ImageURL = img.String
		p.Tag = tag.String
		products = append(products, p)
	}
	return products, rows.Err()
}

// LocationRepository handles region lookups.
type LocationRepository struct {
	db DB
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(db DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// FindByPoint resolves a coordinate to the region whose bounding box contains
// it. Returns ErrNotFound when no box matches.
func (r *LocationRepository) FindByPoint(ctx context.Context, lat, lon float64) (*Location, error) {
	loc := &Location{}
	err := r.db.QueryRowContext(ctx, `
		SELECT location_id, name, min_lat, max_lat, min_long, max_long
		FROM location
		WHERE $1 BETWEEN min_lat AND max_lat
		  AND $2 BETWEEN min_long AND max_long
		LIMIT 1
	`, lat, lon).Scan(&loc.ID, &loc.Name, &loc.MinLat, &loc.MaxLat, &loc.MinLong, &loc.MaxLong)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query location by point: %w", err)
	}
	return loc, nil
}

// List returns every region.
func (r *LocationRepository) List(ctx context.Context) ([]Location, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT location_id, name, min_lat, max_lat, min_long, max_long
		FROM location
	`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var loc Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.MinLat, &loc.MaxLat, &loc.MinLong, &loc.MaxLong); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

package storage

import (
	"context"
	"fmt"
)

// schemaStatements bootstraps the development schema. Column types are kept
// loose so the same DDL runs on both SQLite and Postgres.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS location (
		location_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		min_lat REAL, max_lat REAL,
		min_long REAL, max_long REAL
	)`,
	`CREATE TABLE IF NOT EXISTS product (
		product_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		des TEXT,
		image_url TEXT,
		location_id INTEGER REFERENCES location(location_id),
		tag TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS store (
		store_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		lat REAL, long REAL,
		location_id INTEGER REFERENCES location(location_id)
	)`,
	`CREATE TABLE IF NOT EXISTS product_store (
		ps_id INTEGER PRIMARY KEY,
		product_id INTEGER REFERENCES product(product_id),
		store_id INTEGER REFERENCES store(store_id),
		cost TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS product_images (
		image_id INTEGER PRIMARY KEY,
		ps_id INTEGER REFERENCES product_store(ps_id),
		image_url TEXT,
		type INTEGER
	)`,
}

// EnsureSchema creates the tables the engine reads if they do not exist yet.
func EnsureSchema(ctx context.Context, db DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// InsertLocation inserts a region row.
func InsertLocation(ctx context.Context, db DB, loc Location) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO location (location_id, name, min_lat, max_lat, min_long, max_long)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, loc.ID, loc.Name, loc.MinLat, loc.MaxLat, loc.MinLong, loc.MaxLong)
	return err
}

// InsertProduct inserts a product row.
func InsertProduct(ctx context.Context, db DB, p Product) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO product (product_id, name, des, image_url, location_id, tag)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Name, p.Description, p.ImageURL, p.LocationID, p.Tag)
	return err
}

// InsertStore inserts a store row.
func InsertStore(ctx context.Context, db DB, s Store, locationID int64) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO store (store_id, name, address, lat, long, location_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.ID, s.Name, s.Address, s.Lat, s.Long, locationID)
	return err
}

// InsertProductStore inserts a product-store association with its cost string.
func InsertProductStore(ctx context.Context, db DB, psID, productID, storeID int64, cost string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO product_store (ps_id, product_id, store_id, cost)
		VALUES ($1, $2, $3, $4)
	`, psID, productID, storeID, cost)
	return err
}

// InsertProductImage inserts an image attached to a product-store association.
func InsertProductImage(ctx context.Context, db DB, imageID, psID int64, imageURL string, imgType int) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO product_images (image_id, ps_id, image_url, type)
		VALUES ($1, $2, $3, $4)
	`, imageID, psID, imageURL, imgType)
	return err
}

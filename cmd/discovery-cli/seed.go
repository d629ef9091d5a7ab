package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dacsanviet/discovery-engine/internal/storage"
)

// seedFixture is the JSON shape accepted by the seed command. Identifiers are
// explicit so a fixture can be reloaded into a fresh database reproducibly.
type seedFixture struct {
	Locations []struct {
		ID      int64   `json:"location_id"`
		Name    string  `json:"name"`
		MinLat  float64 `json:"min_lat"`
		MaxLat  float64 `json:"max_lat"`
		MinLong float64 `json:"min_long"`
		MaxLong float64 `json:"max_long"`
	} `json:"locations"`
	Products []struct {
		ID          int64  `json:"product_id"`
		Name        string `json:"name"`
		Description string `json:"des"`
		ImageURL    string `json:"image_url"`
		LocationID  int64  `json:"location_id"`
		Tag         string `json:"tag"`
	} `json:"products"`
	Stores []struct {
		ID         int64   `json:"store_id"`
		Name       string  `json:"name"`
		Address    string  `json:"address"`
		Lat        float64 `json:"lat"`
		Long       float64 `json:"long"`
		LocationID int64   `json:"location_id"`
	} `json:"stores"`
	ProductStores []struct {
		PSID      int64  `json:"ps_id"`
		ProductID int64  `json:"product_id"`
		StoreID   int64  `json:"store_id"`
		Cost      string `json:"cost"`
	} `json:"product_stores"`
	ProductImages []struct {
		ImageID  int64  `json:"image_id"`
		PSID     int64  `json:"ps_id"`
		ImageURL string `json:"image_url"`
		Type     int    `json:"type"`
	} `json:"product_images"`
}

func (f *seedFixture) total() int {
	return len(f.Locations) + len(f.Products) + len(f.Stores) +
		len(f.ProductStores) + len(f.ProductImages)
}

// newSeedCmd creates the seed subcommand.
func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a JSON fixture into the database",
		Long: `Seed creates the schema if needed and loads locations, products,
stores, product-store associations, and product images from a JSON fixture.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ui := NewUI(outputJSON, os.Getenv("NO_COLOR") != "")

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read fixture: %w", err)
			}
			var fixture seedFixture
			if err := json.Unmarshal(data, &fixture); err != nil {
				return fmt.Errorf("parse fixture: %w", err)
			}
			if fixture.total() == 0 {
				return fmt.Errorf("fixture %s contains no rows", file)
			}

			db, err := storage.Open(cfg.DatabaseDriverName(), cfg.DatabaseDSN())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if err := storage.EnsureSchema(ctx, db); err != nil {
				return err
			}

			bar := progressbar.NewOptions(fixture.total(),
				progressbar.OptionSetDescription("seeding"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)

			for _, l := range fixture.Locations {
				loc := storage.Location{
					ID: l.ID, Name: l.Name,
					MinLat: l.MinLat, MaxLat: l.MaxLat,
					MinLong: l.MinLong, MaxLong: l.MaxLong,
				}
				if err := storage.InsertLocation(ctx, db, loc); err != nil {
					return fmt.Errorf("insert location %d: %w", l.ID, err)
				}
				_ = bar.Add(1)
			}
			for _, p := range fixture.Products {
				product := storage.Product{
					ID: p.ID, Name: p.Name, Description: p.Description,
					ImageURL: p.ImageURL, LocationID: p.LocationID, Tag: p.Tag,
				}
				if err := storage.InsertProduct(ctx, db, product); err != nil {
					return fmt.Errorf("insert product %d: %w", p.ID, err)
				}
				_ = bar.Add(1)
			}
			for _, s := range fixture.Stores {
				store := storage.Store{
					ID: s.ID, Name: s.Name, Address: s.Address,
					Lat: s.Lat, Long: s.Long,
				}
				if err := storage.InsertStore(ctx, db, store, s.LocationID); err != nil {
					return fmt.Errorf("insert store %d: %w", s.ID, err)
				}
				_ = bar.Add(1)
			}
			for _, ps := range fixture.ProductStores {
				if err := storage.InsertProductStore(ctx, db, ps.PSID, ps.ProductID, ps.StoreID, ps.Cost); err != nil {
					return fmt.Errorf("insert product_store %d: %w", ps.PSID, err)
				}
				_ = bar.Add(1)
			}
			for _, img := range fixture.ProductImages {
				if err := storage.InsertProductImage(ctx, db, img.ImageID, img.PSID, img.ImageURL, img.Type); err != nil {
					return fmt.Errorf("insert product image %d: %w", img.ImageID, err)
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			ui.Success("seeded %d rows from %s", fixture.total(), file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the JSON fixture (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/dacsanviet/discovery-engine/internal/catalog"
	"github.com/dacsanviet/discovery-engine/internal/geo"
	"github.com/dacsanviet/discovery-engine/internal/pricing"
	"github.com/dacsanviet/discovery-engine/internal/queryfix"
	"github.com/dacsanviet/discovery-engine/internal/search"
	"github.com/dacsanviet/discovery-engine/internal/storage"
)

// newSearchCmd creates the search subcommand.
func newSearchCmd() *cobra.Command {
	var (
		lat      float64
		lon      float64
		distance float64
		price    string
		noAI     bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search local products by name",
		Long: `Search ranks products against the query the same way the API does:
exact normalized matches first, then ordered word-prefix matches. When the
local pass finds nothing and an AI key is configured, the query is corrected
once and retried.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ui := NewUI(outputJSON, os.Getenv("NO_COLOR") != "")

			db, err := storage.Open(cfg.DatabaseDriverName(), cfg.DatabaseDSN())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			searchRepo := storage.NewSearchRepository(db)
			productRepo := storage.NewProductRepository(db)

			var provider queryfix.Provider
			timeout := cfg.AI.Gemini.Timeout
			if cfg.AI.TextProvider == "groq" {
				if cfg.AI.Groq.APIKey != "" {
					provider = queryfix.NewGroqClient(cfg.AI.Groq.APIKey, cfg.AI.Groq.Model)
					timeout = cfg.AI.Groq.Timeout
				}
			} else if cfg.AI.Gemini.APIKey != "" {
				provider = queryfix.NewGeminiClient(cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model)
			}

			var fixer search.QueryFixer
			if !noAI && provider != nil {
				snapshot := catalog.NewSnapshot(productRepo, nil, logger)
				if err := snapshot.Refresh(ctx); err != nil {
					ui.Warning("catalog load failed, AI fallback disabled: %v", err)
				} else {
					fixer = queryfix.NewFixer(provider, snapshot, timeout, logger)
				}
			}

			stop := ui.Spinner("searching...")
			rows, err := searchRepo.FetchJoinRows(ctx)
			if err != nil {
				stop()
				return fmt.Errorf("fetch products: %w", err)
			}

			caller := geo.Point{Lat: lat, Lon: lon}
			pm := search.Aggregate(rows, &caller)
			engine := search.NewEngine(logger, fixer)
			results := engine.SearchWithFallback(ctx, query, pm)

			if distance > 0 {
				results = search.FilterByDistance(results, distance)
			}
			if price != "" {
				results = search.FilterByPrice(results, price)
			}
			stop()

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(results)
			}

			if len(results) == 0 {
				ui.Warning("no products match %q", query)
				return nil
			}

			ui.Success("%d product(s) match %q", len(results), query)
			for _, sp := range results {
				printProduct(sp)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 21.0285, "caller latitude")
	cmd.Flags().Float64Var(&lon, "lon", 105.8542, "caller longitude")
	cmd.Flags().Float64Var(&distance, "distance", 0, "only keep stores within this many km")
	cmd.Flags().StringVar(&price, "price", "", "price bracket 1-6 (1 = under 50k, 6 = over 1M)")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "disable the AI query-fix fallback")

	return cmd
}

func printProduct(sp search.ScoredProduct) {
	p := sp.Product
	name := color.New(color.FgCyan, color.Bold).Sprint(p.Product.Name)
	fmt.Printf("\n%s", name)
	if p.Location.Name != "" {
		fmt.Printf("  (%s)", p.Location.Name)
	}
	fmt.Printf("  score=%d\n", sp.Score)

	for _, s := range p.Stores {
		line := "  - " + s.Name
		if s.Address != "" {
			line += ", " + s.Address
		}
		if s.DistanceKm != nil {
			line += fmt.Sprintf("  %.1f km", *s.DistanceKm)
		}
		if rng := pricing.FormatRange(pricing.Price{Min: s.MinPrice, Max: s.MaxPrice}); rng != "" {
			line += "  " + rng
		}
		fmt.Println(line)
	}
}

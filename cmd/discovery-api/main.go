// Package main provides the discovery engine API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dacsanviet/discovery-engine/cmd/discovery-api/handlers"
	"github.com/dacsanviet/discovery-engine/internal/cache"
	"github.com/dacsanviet/discovery-engine/internal/catalog"
	"github.com/dacsanviet/discovery-engine/internal/config"
	"github.com/dacsanviet/discovery-engine/internal/observability"
	"github.com/dacsanviet/discovery-engine/internal/queryfix"
	"github.com/dacsanviet/discovery-engine/internal/search"
	"github.com/dacsanviet/discovery-engine/internal/storage"
)

func main() {
	// Optional .env for local development; env vars win over the file.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "discovery-engine",
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Str("cache", cfg.Cache.Driver).
		Msg("Starting discovery engine API")

	db, err := storage.Open(cfg.DatabaseDriverName(), cfg.DatabaseDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	var cacheClient cache.Client
	if cfg.Cache.Driver == "redis" {
		cacheClient, err = cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to redis")
		}
	} else {
		cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}
	defer cacheClient.Close()

	searchRepo := storage.NewSearchRepository(db)
	productRepo := storage.NewProductRepository(db)
	locationRepo := storage.NewLocationRepository(db)

	snapshot := catalog.NewSnapshot(productRepo, cacheClient, logger)
	if err := snapshot.Load(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("Catalog load failed; AI prompts start unscoped")
	}

	groq := queryfix.NewGroqClient(cfg.AI.Groq.APIKey, cfg.AI.Groq.Model)

	var textProvider queryfix.Provider = queryfix.NewGeminiClient(cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model)
	textTimeout := cfg.AI.Gemini.Timeout
	if cfg.AI.TextProvider == "groq" {
		textProvider = groq
		textTimeout = cfg.AI.Groq.Timeout
	}
	logger.Info().Str("text_provider", textProvider.Name()).Msg("Query-fix provider selected")

	fixer := queryfix.NewFixer(textProvider, snapshot, textTimeout, logger)
	detector := queryfix.NewDetector(groq, snapshot, cfg.AI.Groq.Timeout, logger)
	engine := search.NewEngine(logger, fixer)

	h := Handlers{
		Search: handlers.NewSearchHandler(logger, searchRepo, engine, cacheClient, handlers.SearchOptions{
			DefaultLat:   cfg.Search.DefaultLat,
			DefaultLon:   cfg.Search.DefaultLon,
			CacheResults: cfg.Search.CacheResults,
			CacheTTL:     cfg.Search.CacheTTL,
		}),
		Suggest: handlers.NewSuggestHandler(logger, locationRepo, productRepo),
		Vision:  handlers.NewVisionHandler(logger, detector),
		Catalog: handlers.NewCatalogHandler(logger, snapshot),
	}

	router := NewRouter(h, cfg.Server.ReadTimeout)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

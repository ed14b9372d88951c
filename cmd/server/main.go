package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/skinshelf/backend/config"
	httpDelivery "github.com/skinshelf/backend/internal/delivery/http"
	"github.com/skinshelf/backend/internal/domain"
	"github.com/skinshelf/backend/internal/infrastructure/cache"
	"github.com/skinshelf/backend/internal/infrastructure/directory"
	"github.com/skinshelf/backend/internal/infrastructure/favsync"
	"github.com/skinshelf/backend/internal/infrastructure/seed"
	"github.com/skinshelf/backend/internal/infrastructure/store"
	"github.com/skinshelf/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SkinShelf Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	productStore, err := store.NewBoltStore(cfg.Store.Path)
	if err != nil {
		log.Printf("WARNING: Store unavailable at %s, falling back to memory-only: %v", cfg.Store.Path, err)
		productStore, _ = store.NewBoltStore("")
	}
	defer productStore.Close()

	if productStore.Persistent() {
		log.Printf("Store: %s", cfg.Store.Path)
	} else {
		log.Printf("Store: memory-only, catalog will not survive restarts")
	}

	directoryClient := directory.NewClient(directory.Config{
		BaseURL:        cfg.Directory.BaseURL,
		UserAgent:      cfg.Directory.UserAgent,
		Timeout:        cfg.Directory.Timeout,
		RateLimitRPS:   cfg.Directory.RateLimitRPS,
		RateLimitBurst: cfg.Directory.RateLimitBurst,
	})
	cachedDirectory := cache.NewDirectory(directoryClient, cfg.Directory.LookupTTL)
	log.Printf("Directory: %s", cfg.Directory.BaseURL)
	log.Printf("Lookup cache TTL: %s", cfg.Directory.LookupTTL)

	seedSource := &seed.Source{}

	var syncer domain.FavoritesSyncer
	syncUserID := ""
	if cfg.Sync.Enabled {
		syncer = favsync.NewClient(cfg.Sync.BaseURL, cfg.Sync.Timeout)
		syncUserID = cfg.Sync.UserID
		log.Printf("Favorites sync: %s (user %s)", cfg.Sync.BaseURL, cfg.Sync.UserID)
	} else {
		log.Printf("Favorites sync: disabled")
	}

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(
		productStore,
		cachedDirectory,
		seedSource,
		syncer,
		usecase.CatalogServiceConfig{
			PageSize:    cfg.Directory.PageSize,
			SampleCount: cfg.Directory.SampleCount,
			SyncUserID:  syncUserID,
			SyncTimeout: cfg.Sync.Timeout,
		},
	)

	catalogService.Initialize(context.Background())
	log.Printf("Catalog ready: %d products (%s)", len(catalogService.Catalog()), catalogService.LastTier())

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

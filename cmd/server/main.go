package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/config"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/catalog"
	httpDelivery "github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/delivery/http"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/infrastructure/gemini"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/infrastructure/store"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SmartComparison Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store Type: %s", cfg.Store.Type)

	// Price-history store: in-memory by default, Redis when configured.
	var repo domain.HistoryRepository
	switch cfg.Store.Type {
	case "redis":
		redisStore, err := store.NewRedisStore(cfg.Store.RedisURL, cfg.Store.Namespace)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		repo = redisStore
		log.Printf("Redis store configured: namespace %q", cfg.Store.Namespace)
	default:
		repo = store.NewMemoryStore()
	}

	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model)
	if cfg.Server.Environment == "development" {
		geminiClient.SetDebug(true)
		log.Printf("Gemini client debug mode enabled")
	}
	if cfg.Gemini.APIKey != "" {
		log.Printf("Gemini API configured: %s (model: %s)", cfg.Gemini.BaseURL, cfg.Gemini.Model)
	} else {
		log.Printf("WARNING: Gemini API key NOT CONFIGURED - running in demo mode, discovery and analysis will use fallbacks")
	}

	historyService := usecase.NewHistoryService(repo)
	reconcileService := usecase.NewReconcileService(geminiClient, historyService)
	refreshService := usecase.NewRefreshService(historyService, geminiClient)

	// Seed demo history so range queries have data on first load.
	seeded := historyService.Seed(context.Background(),
		append([]domain.Listing{catalog.ReferenceProduct()}, catalog.Competitors()...))
	log.Printf("Seeded price history for %d catalog products", seeded)

	handler := httpDelivery.NewHandler(reconcileService, refreshService, historyService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

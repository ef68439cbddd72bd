// ABOUTME: Main entry point for the stagewise MCP server with stdio transport
// ABOUTME: Loads configuration, builds the model client and serves all tools
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/stagewise/internal/config"
	"github.com/harper/stagewise/internal/llm"
	"github.com/harper/stagewise/internal/mcp"
	"github.com/harper/stagewise/internal/stage"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := llm.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize model client: %v", err)
	}

	catalog := stage.DefaultCatalog()
	if cfg.CatalogPath != "" {
		if catalog, err = stage.LoadCatalog(cfg.CatalogPath); err != nil {
			log.Fatalf("Failed to load stage catalog: %v", err)
		}
	}

	server := mcp.NewServer(mcp.NewHandlers(gen, catalog, cfg.Locale, cfg.Markers, nil), version)

	log.Println("stagewise MCP server starting on stdio...")
	if err := mcp.ServeStdio(ctx, server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

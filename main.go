package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/assetforge/forge/internal/cachestore"
	"github.com/assetforge/forge/internal/pipeline"
	"github.com/assetforge/forge/internal/server"
	"github.com/assetforge/forge/pkg/assetapi"

	// Blank import registers the stock processor factories.
	_ "github.com/assetforge/forge/processors/builtin"
)

func main() {
	// Command-line flags for configuration.
	port := flag.Int("port", 8080, "Port for the introspection API")
	manifestFile := flag.String("manifest", "manifest.yaml", "Path to the registration manifest YAML file")
	cachePath := flag.String("cache", "", "Path to the SQLite cache database (empty for in-memory)")
	authEnabled := flag.Bool("auth", false, "Enable basic authentication for the API")
	username := flag.String("username", "admin", "Username for API authentication")
	password := flag.String("password", "", "Password for API authentication")
	flag.Parse()

	env := pipeline.New()

	// Wire the compiled-output cache.
	var cache assetapi.Cache
	if *cachePath != "" {
		sqliteCache, err := cachestore.NewSQLiteStore(*cachePath)
		if err != nil {
			log.Fatalf("Error opening cache store: %v", err)
		}
		cache = sqliteCache
	} else {
		cache = cachestore.NewMemoryStore()
	}
	defer cache.Close()
	env.SetCache(cache)

	// Apply the registration manifest if one exists.
	if _, err := os.Stat(*manifestFile); err == nil {
		manifest, err := pipeline.LoadManifest(*manifestFile)
		if err != nil {
			log.Fatalf("Error loading manifest: %v", err)
		}
		if err := env.Apply(manifest); err != nil {
			log.Fatalf("Error applying manifest: %v", err)
		}
	} else {
		log.Printf("No manifest at %s, starting with an empty environment", *manifestFile)
	}

	log.Printf("Registered processor types: %v", pipeline.FactoryNames())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	apiServer := server.New(env, *port, *authEnabled, *username, *password)
	if err := apiServer.Start(ctx); err != nil {
		log.Fatalf("Error starting API server: %v", err)
	}

	log.Println("Environment initialized and running.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	log.Printf("Received signal %v, shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}
}

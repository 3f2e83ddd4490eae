package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/herdsense/prenhez-api/pkg/analysisstore"
	"github.com/herdsense/prenhez-api/pkg/api"
	"github.com/herdsense/prenhez-api/pkg/config"
	"github.com/herdsense/prenhez-api/pkg/inference"
)

func main() {
	cfg := config.LoadConfig()

	log.Printf("Starting prenhez API in %s mode", cfg.Environment)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	store, err := analysisstore.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open analysis store: %v", err)
	}
	defer store.Close()
	log.Printf("Analysis store ready at %s", cfg.DBPath)

	// A failed model load is terminal for prediction but the API still comes
	// up: /health reports model_loaded=false and /predict answers with a
	// model-unavailable error until a restart with a valid artifact.
	svc, err := inference.Load(cfg.ModelPath)
	if err != nil {
		log.Printf("Failed to load model bundle from %s: %v", cfg.ModelPath, err)
		svc = nil
	} else {
		log.Printf("Model loaded with features: %v", svc.Features())
	}

	server := api.NewServer(svc, store, cfg.Port, cfg.CORSOrigin)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

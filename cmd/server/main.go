package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/cvmatch/backend/config"
	httpDelivery "github.com/cvmatch/backend/internal/delivery/http"
	"github.com/cvmatch/backend/internal/infrastructure/embedding"
	"github.com/cvmatch/backend/internal/infrastructure/extract"
	"github.com/cvmatch/backend/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CV-to-Job Matcher Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Embedding model: %s at %s", cfg.Embedding.Model, cfg.Embedding.BaseURL)

	// Infrastructure dependencies. The embedding client defers its model
	// probe to the first request.
	extractor := extract.NewExtractor()
	embedder := embedding.NewClient(embedding.Config{
		BaseURL:            cfg.Embedding.BaseURL,
		Model:              cfg.Embedding.Model,
		MaxTokens:          cfg.Embedding.MaxTokens,
		Timeout:            cfg.Embedding.Timeout,
		RequestsPerSecond:  cfg.Embedding.RequestsPerSecond,
		Burst:              cfg.Embedding.Burst,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	matchService := usecase.NewMatchService(extractor, embedder, usecase.MatchConfig{
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	log.Printf("Skill taxonomy: %d skills", len(matchService.ListSkills()))

	handler := httpDelivery.NewHandler(matchService)
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

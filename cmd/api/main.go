package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cdurham/hegemon/internal/config"
	"github.com/cdurham/hegemon/internal/handlers"
	"github.com/cdurham/hegemon/internal/logger"
	"github.com/cdurham/hegemon/internal/middleware"
	"github.com/cdurham/hegemon/internal/services"
	"github.com/cdurham/hegemon/internal/storage"
	"github.com/cdurham/hegemon/internal/worker"
	"github.com/cdurham/hegemon/pkg/diplomacy"
	"github.com/cdurham/hegemon/pkg/engine"
	"github.com/cdurham/hegemon/pkg/military"
	"github.com/cdurham/hegemon/pkg/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Hegemon API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"oracle_provider", cfg.OracleProvider,
		"model_name", cfg.ModelName)

	var client services.Client
	switch strings.ToLower(cfg.OracleProvider) {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		client = services.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic oracle provider")
	case "ollama":
		client = services.NewOllamaClient(cfg.OllamaURL, cfg.ModelName, log)
		log.Info("Using Ollama oracle provider", "url", cfg.OllamaURL)
	default:
		log.Error("Invalid oracle provider specified", "provider", cfg.OracleProvider, "supported", []string{"anthropic", "ollama"})
		os.Exit(1)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.SaveDir, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	// Initialize the model on startup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	oracle := services.NewLLMOracle(client, log)
	if err := oracle.InitModel(ctx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize oracle model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	mil := military.NewManager(military.NewCounterIDSource(), log)
	eng := engine.New(mil, log)
	processor := worker.NewTurnProcessor(store, oracle, eng, mil, log)
	diplo := diplomacy.NewManager(store, oracle, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/v1/health", healthHandler)

	gameStateHandler := handlers.NewGameStateHandler(store, snapshot.DefaultGeography(), log)
	mux.Handle("/v1/gamestate", gameStateHandler)
	mux.Handle("/v1/gamestate/", gameStateHandler)

	saveHandler := handlers.NewSaveHandler(store, log)
	mux.Handle("/v1/saves", saveHandler)
	mux.Handle("/v1/saves/", saveHandler)

	turnHandler := handlers.NewTurnHandler(processor, log)
	mux.Handle("/v1/turn", turnHandler)
	mux.Handle("/v1/turn/", turnHandler)

	chatHandler := handlers.NewChatHandler(diplo, log)
	mux.Handle("/v1/chat", chatHandler)
	mux.Handle("/v1/chat/", chatHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}

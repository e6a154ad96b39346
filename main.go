package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/caloflow/caloflow/internal/config"
	"github.com/caloflow/caloflow/internal/domain"
	"github.com/caloflow/caloflow/internal/httpapi"
	"github.com/caloflow/caloflow/internal/kvstore"
	"github.com/caloflow/caloflow/internal/logger"
	"github.com/caloflow/caloflow/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
	})
	logger.Info("starting caloflow server")

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "backend", cfg.Storage, "error", err)
	}
	logger.Info("storage initialized", "backend", cfg.Storage)

	authService := services.NewAuthService(store)
	weightService := services.NewWeightService(store)
	profileService := services.NewProfileService(store, weightService)
	dayLogService := services.NewDayLogService(store)
	transferService := services.NewTransferService(store, profileService, dayLogService, weightService)
	aiService := services.NewAIService(services.AIDefaults{
		GeminiAPIKey:    cfg.AI.GeminiAPIKey,
		GeminiBaseURL:   cfg.AI.GeminiBaseURL,
		DeepSeekAPIKey:  cfg.AI.DeepSeekAPIKey,
		DeepSeekBaseURL: cfg.AI.DeepSeekBaseURL,
	})

	server := httpapi.NewServer(cfg.ListenAddr, authService, profileService, dayLogService, weightService, transferService, aiService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("server stopped with error", "error", err)
	}
	logger.Info("server stopped")
}

func newStore(cfg *config.Config) (domain.KeyValueStore, error) {
	switch cfg.Storage {
	case config.StorageRedis:
		return kvstore.NewRedisStore(cfg.Redis.Host, cfg.Redis.Port)
	case config.StoragePostgres:
		return kvstore.NewPostgresStore(kvstore.PostgresConfig{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			DBName:   cfg.DB.DBName,
		})
	default:
		return kvstore.NewMemoryStore(), nil
	}
}

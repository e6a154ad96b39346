package main

import (
	"fmt"
	"os"

	"github.com/caloflow/caloflow/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Note: no .env file found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration OK")
	fmt.Printf("  - Listen addr: %s\n", cfg.ListenAddr)
	fmt.Printf("  - Storage backend: %s\n", cfg.Storage)
	fmt.Printf("  - Redis: %s:%s\n", cfg.Redis.Host, cfg.Redis.Port)
	fmt.Printf("  - DB host: %s\n", cfg.DB.Host)
	fmt.Printf("  - DB port: %s\n", cfg.DB.Port)
	fmt.Printf("  - DB name: %s\n", cfg.DB.DBName)
	fmt.Printf("  - Gemini API key: %s\n", maskToken(cfg.AI.GeminiAPIKey))
	fmt.Printf("  - DeepSeek API key: %s\n", maskToken(cfg.AI.DeepSeekAPIKey))
	fmt.Printf("  - DeepSeek base URL: %s\n", cfg.AI.DeepSeekBaseURL)
	fmt.Printf("  - Log level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

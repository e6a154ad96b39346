package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caloflow/caloflow/internal/logger"
)

// StorageBackend selects the key-value substrate behind the repositories.
type StorageBackend string

const (
	StorageMemory   StorageBackend = "memory"
	StorageRedis    StorageBackend = "redis"
	StoragePostgres StorageBackend = "postgres"
)

type Config struct {
	ListenAddr string
	Storage    StorageBackend
	Redis      RedisConfig
	DB         DBConfig
	AI         AIConfig
	Logger     LoggerConfig
}

type RedisConfig struct {
	Host string
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// AIConfig holds deployment-level default credentials; per-user overrides
// live in the profile.
type AIConfig struct {
	GeminiAPIKey    string
	GeminiBaseURL   string
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
}

type LoggerConfig struct {
	Level  logger.LogLevel
	Format string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func parseStorageBackend(backend string) (StorageBackend, error) {
	switch strings.ToLower(backend) {
	case "", "memory":
		return StorageMemory, nil
	case "redis":
		return StorageRedis, nil
	case "postgres":
		return StoragePostgres, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q (expected memory, redis or postgres)", backend)
	}
}

func Load() (*Config, error) {
	storage, err := parseStorageBackend(os.Getenv("STORAGE_BACKEND"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ListenAddr: getEnvOrDefault("LISTEN_ADDR", ":8080"),
		Storage:    storage,
		Redis: RedisConfig{
			Host: getEnvOrDefault("REDIS_HOST", "localhost"),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "caloflow"),
		},
		AI: AIConfig{
			GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
			GeminiBaseURL:   os.Getenv("GEMINI_BASE_URL"),
			DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
			DeepSeekBaseURL: getEnvOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		},
		Logger: LoggerConfig{
			Level:  parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}, nil
}

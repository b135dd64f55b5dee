package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/adherahq/adhera-bot/internal/logger"
)

// Backend selects the record store implementation.
type Backend string

const (
	BackendFile     Backend = "file"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

type Config struct {
	TelegramToken string
	Storage       StorageConfig
	DB            DBConfig
	Redis         RedisConfig
	Logger        LoggerConfig
}

type StorageConfig struct {
	Backend Backend
	DataDir string // used by the file backend
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host string
	Port string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
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

func parseBackend(backend string) (Backend, error) {
	switch strings.ToLower(backend) {
	case "", "file":
		return BackendFile, nil
	case "redis":
		return BackendRedis, nil
	case "postgres":
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q (want file, redis or postgres)", backend)
	}
}

func Load() (*Config, error) {
	backend, err := parseBackend(os.Getenv("STORAGE_BACKEND"))
	if err != nil {
		return nil, err
	}

	return &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		Storage: StorageConfig{
			Backend: backend,
			DataDir: getEnvOrDefault("DATA_DIR", "data"),
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "adhera"),
		},
		Redis: RedisConfig{
			Host: getEnvOrDefault("REDIS_HOST", "localhost"),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}, nil
}

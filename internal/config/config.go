package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Catalog  CatalogConfig
	Refresh  RefreshConfig
	Sources  SourcesConfig
	Log      LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// CatalogConfig selects where the asset catalog lives.
type CatalogConfig struct {
	Backend   string // "json" or "sqlite"
	Path      string // JSON catalog file
	BackupDir string
}

// RefreshConfig tunes the refresh engine.
type RefreshConfig struct {
	Concurrency int
	Timeout     time.Duration // per outbound request
	Schedule    string        // cron spec, empty disables scheduled refreshes
}

// SourcesConfig holds the upstream base URLs.
type SourcesConfig struct {
	YahooBaseURL     string
	CoinGeckoBaseURL string
}

type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	concurrency, err := strconv.Atoi(getEnv("REFRESH_CONCURRENCY", "5"))
	if err != nil || concurrency <= 0 {
		return nil, fmt.Errorf("invalid REFRESH_CONCURRENCY: must be a positive integer")
	}

	timeout, err := time.ParseDuration(getEnv("REFRESH_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid REFRESH_TIMEOUT: must be a positive duration")
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/assets.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Catalog: CatalogConfig{
			Backend:   getEnv("CATALOG_BACKEND", "json"),
			Path:      getEnv("CATALOG_PATH", "./data/assets.json"),
			BackupDir: getEnv("BACKUP_DIR", "./data/backups"),
		},
		Refresh: RefreshConfig{
			Concurrency: concurrency,
			Timeout:     timeout,
			Schedule:    os.Getenv("REFRESH_SCHEDULE"),
		},
		Sources: SourcesConfig{
			YahooBaseURL:     getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			CoinGeckoBaseURL: getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

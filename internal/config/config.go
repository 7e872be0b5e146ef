package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Scheduler  SchedulerConfig
	MarketData MarketDataConfig
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

// SchedulerConfig holds the price refresh scheduler configuration
type SchedulerConfig struct {
	Enabled bool
	// Cron is a standard five-field cron expression.
	Cron string
}

// MarketDataConfig holds the price cache tuning knobs. Zero values fall
// back to the cache's built-in defaults.
type MarketDataConfig struct {
	StalenessDays int
	OverlapDays   int
	BatchSize     int
	Workers       int
	FetchTimeout  time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/marketvault.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Scheduler: SchedulerConfig{
			Enabled: getEnvBool("REFRESH_ENABLED", true),
			// Daily at 06:00, after most exchanges have published closes.
			Cron: getEnv("REFRESH_CRON", "0 6 * * *"),
		},
		MarketData: MarketDataConfig{
			StalenessDays: getEnvInt("PRICE_STALENESS_DAYS", 0),
			OverlapDays:   getEnvInt("PRICE_OVERLAP_DAYS", 0),
			BatchSize:     getEnvInt("PRICE_FETCH_BATCH_SIZE", 0),
			Workers:       getEnvInt("PRICE_FETCH_WORKERS", 0),
			FetchTimeout:  getEnvDuration("PRICE_FETCH_TIMEOUT", 0),
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

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	APIKeys              []string // optional; auth disabled when empty
	LibraryDir           string   // gallery source directory (empty = gallery disabled)
	WatchDir             string   // auto-clean inbox (empty = watcher disabled)
	CleanedDir           string   // auto-clean output directory
	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration
	MaxUploadBytes       int64
	RateLimitRPS         float64
	RateLimitBurst       int
	ThumbnailWidth       int
}

// Load reads configuration from environment variables and .env file.
// It loads the .env file if present, then populates the Config struct.
// Returns an error if the configuration is inconsistent.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		AllowedOrigins:       getList("ALLOWED_ORIGINS", []string{"*"}),
		APIKeys:              getList("API_KEYS", []string{}),
		LibraryDir:           getEnv("LIBRARY_DIR", ""),
		WatchDir:             getEnv("WATCH_DIR", ""),
		CleanedDir:           getEnv("CLEANED_DIR", ""),
		CacheTTL:             getDurationEnv("CACHE_TTL", 15*time.Minute),
		CacheCleanupInterval: getDurationEnv("CACHE_CLEANUP_INTERVAL", 10*time.Minute),
		MaxUploadBytes:       getInt64Env("MAX_UPLOAD_BYTES", 32<<20),
		RateLimitRPS:         getFloatEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst:       getIntEnv("RATE_LIMIT_BURST", 20),
		ThumbnailWidth:       getIntEnv("THUMBNAIL_WIDTH", 320),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.CacheCleanupInterval <= 0 {
		return fmt.Errorf("CACHE_CLEANUP_INTERVAL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	if c.ThumbnailWidth <= 0 {
		return fmt.Errorf("THUMBNAIL_WIDTH must be positive")
	}
	if c.WatchDir != "" && c.CleanedDir == "" {
		return fmt.Errorf("CLEANED_DIR is required when WATCH_DIR is set")
	}
	return nil
}

// Retrieves an environment variable or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// Retrieves a duration from environment variable or returns a default value.
// It supports both time.Duration format (e.g., "10m", "12h") and integer minutes.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

// Retrieves a comma-separated list from environment variable or returns a default value.
func getList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

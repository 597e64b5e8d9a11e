// ABOUTME: Centralized configuration for the foodlog engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the analysis engine
type Config struct {
	// Anthropic settings
	Model     string
	MaxTokens int
	Timeout   time.Duration

	// Retry / loop bounds
	MaxRetries    int
	MaxIterations int

	// Lookup settings
	SearchLimit int

	// Storage paths
	DBPath      string
	NutritionDB string
	BrandedDB   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		Model:         getEnv("FOODLOG_MODEL", "claude-sonnet-4-20250514"),
		MaxTokens:     getEnvInt("FOODLOG_MAX_TOKENS", 4096),
		Timeout:       getEnvDuration("FOODLOG_TIMEOUT", 30*time.Second),
		MaxRetries:    getEnvInt("FOODLOG_MAX_RETRIES", 1),
		MaxIterations: getEnvInt("FOODLOG_MAX_ITERATIONS", 8),
		SearchLimit:   getEnvInt("FOODLOG_SEARCH_LIMIT", 5),
		DBPath:        os.Getenv("FOODLOG_DB_PATH"),
		NutritionDB:   getEnv("FOODLOG_NUTRITION_DB", "fndds.sqlite"),
		BrandedDB:     getEnv("FOODLOG_BRANDED_DB", "branded.sqlite"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("FOODLOG_MODEL must not be empty")
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("FOODLOG_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("FOODLOG_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.MaxIterations < 1 || c.MaxIterations > 50 {
		return fmt.Errorf("FOODLOG_MAX_ITERATIONS must be 1-50, got %d", c.MaxIterations)
	}
	if c.SearchLimit < 1 || c.SearchLimit > 25 {
		return fmt.Errorf("FOODLOG_SEARCH_LIMIT must be 1-25, got %d", c.SearchLimit)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

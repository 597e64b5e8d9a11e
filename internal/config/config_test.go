// ABOUTME: Tests for environment-driven configuration loading
// ABOUTME: Verifies defaults, overrides, and validation bounds
package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Model = %q, want default", cfg.Model)
	}
	if cfg.MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d, want 4096", cfg.MaxTokens)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d, want 1", cfg.MaxRetries)
	}
	if cfg.MaxIterations != 8 {
		t.Errorf("MaxIterations = %d, want 8", cfg.MaxIterations)
	}
	if cfg.SearchLimit != 5 {
		t.Errorf("SearchLimit = %d, want 5", cfg.SearchLimit)
	}
	if cfg.NutritionDB != "fndds.sqlite" {
		t.Errorf("NutritionDB = %q, want fndds.sqlite", cfg.NutritionDB)
	}
	if cfg.BrandedDB != "branded.sqlite" {
		t.Errorf("BrandedDB = %q, want branded.sqlite", cfg.BrandedDB)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FOODLOG_MODEL", "claude-haiku-4-20250514")
	t.Setenv("FOODLOG_MAX_TOKENS", "2000")
	t.Setenv("FOODLOG_TIMEOUT", "10s")
	t.Setenv("FOODLOG_MAX_ITERATIONS", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model != "claude-haiku-4-20250514" {
		t.Errorf("Model = %q, want override", cfg.Model)
	}
	if cfg.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d, want 2000", cfg.MaxTokens)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.MaxIterations != 4 {
		t.Errorf("MaxIterations = %d, want 4", cfg.MaxIterations)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("FOODLOG_MAX_TOKENS", "not-a-number")
	t.Setenv("FOODLOG_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d, want default on bad input", cfg.MaxTokens)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default on bad input", cfg.Timeout)
	}
}

func TestValidate_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Model = "" }},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"excessive retries", func(c *Config) { c.MaxRetries = 11 }},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
		{"excessive search limit", func(c *Config) { c.SearchLimit = 100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should have failed")
			}
		})
	}
}

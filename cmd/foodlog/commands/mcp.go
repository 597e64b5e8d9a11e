// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to log meals via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/foodlog/internal/config"
	"github.com/harper/foodlog/internal/core"
	"github.com/harper/foodlog/internal/llm"
	"github.com/harper/foodlog/internal/mcp"
	"github.com/harper/foodlog/internal/nutrition"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs foodlog as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to analyze and log meals via stdio.

Configure in Claude Desktop's config file to enable food logging tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  foodlog mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "foodlog": {
  #       "command": "foodlog",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Nutrition lookup and meal storage are always available
	nutritionStore, err := nutrition.Open(cfg.NutritionDB)
	if err != nil {
		return fmt.Errorf("opening nutrition database: %w", err)
	}
	defer func() { _ = nutritionStore.Close() }()

	db, mealStore, err := openMealStore(cfg)
	if err != nil {
		return err
	}

	// Optional: barcode lookup works only when branded.sqlite is installed
	brandedStore, err := nutrition.OpenBranded(cfg.BrandedDB)
	if err != nil {
		brandedStore = nil
		if !quiet {
			log.Printf("Branded database not available, lookup_barcode disabled: %v", err)
		}
	} else {
		defer func() { _ = brandedStore.Close() }()
	}

	// Analysis needs an API key; the other tools work without one
	var analyzer *core.Analyzer
	if _, ok := (llm.EnvCredential{}).GetCredential(); ok {
		client := llm.NewClient(llm.ClientConfig{
			Credentials: llm.EnvCredential{},
			Timeout:     cfg.Timeout,
			MaxRetries:  cfg.MaxRetries,
		})
		analyzer = core.NewAnalyzer(client, nutritionStore, cfg)
		if verbose {
			log.Println("LLM client initialized, analyze_meal enabled")
		}
	} else {
		log.Println("Warning: ANTHROPIC_API_KEY not set - analyze_meal will not work")
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Foodlog",
		versionInfo.Version,
	)

	// Register MCP tools
	mcp.RegisterTools(server, analyzer, nutritionStore, brandedStore, mealStore, cfg)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Foodlog MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}

		if err := db.Close(); err != nil {
			log.Printf("Warning: Error closing meal database: %v", err)
		}

		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		_ = db.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

// ABOUTME: MCP tool definitions and registration for the foodlog server
// ABOUTME: Exposes meal analysis, food search, and meal persistence tools
package mcp

import (
	"github.com/harper/foodlog/internal/config"
	"github.com/harper/foodlog/internal/core"
	"github.com/harper/foodlog/internal/nutrition"
	"github.com/harper/foodlog/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server. branded may be
// nil when no branded-foods database is installed.
func RegisterTools(server *mcpserver.MCPServer, analyzer *core.Analyzer, searcher core.FoodSearcher, branded *nutrition.BrandedStore, meals *sqlite.MealStore, cfg *config.Config) *Handlers {
	handlers := &Handlers{
		analyzer: analyzer,
		searcher: searcher,
		branded:  branded,
		meals:    meals,
		cfg:      cfg,
	}

	// 1. analyze_meal - Run the AI analysis loop over a meal description
	server.AddTool(mcp.Tool{
		Name:        "analyze_meal",
		Description: "Analyze a natural-language meal description. Identifies each food, looks it up in the USDA database, and returns per-food nutrients with provenance.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"description": map[string]interface{}{
					"type":        "string",
					"description": "What was eaten, e.g. \"two eggs and a slice of toast\"",
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "Persist the analyzed meals (default false)",
				},
			},
			Required: []string{"description"},
		},
	}, handlers.AnalyzeMeal)

	// 2. search_foods - Direct lookup-store search
	server.AddTool(mcp.Tool{
		Name:        "search_foods",
		Description: "Search the USDA food database by keywords. Returns ranked candidates with per-100g macros and portion hints.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Food name keywords",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum candidates to return (default 5)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchFoods)

	// 3. lookup_barcode - Branded-product lookup by GTIN/UPC
	server.AddTool(mcp.Tool{
		Name:        "lookup_barcode",
		Description: "Look up a branded product by GTIN/UPC barcode. Returns the product with a food entry scaled to the requested weight (default: one labeled serving).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"barcode": map[string]interface{}{
					"type":        "string",
					"description": "GTIN/UPC barcode digits",
				},
				"grams": map[string]interface{}{
					"type":        "number",
					"description": "Consumed weight in grams (default: the labeled serving size)",
				},
			},
			Required: []string{"barcode"},
		},
	}, handlers.LookupBarcode)

	// 4. log_meal - Persist an externally produced meal
	server.AddTool(mcp.Tool{
		Name:        "log_meal",
		Description: "Persist a meal given as JSON in the analysis output format ({\"meal_name\", \"foods\", \"message\", \"logged_at\"}).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"meal_json": map[string]interface{}{
					"type":        "string",
					"description": "One meal object as JSON",
				},
			},
			Required: []string{"meal_json"},
		},
	}, handlers.LogMeal)

	// 5. get_meals - List recent meals
	server.AddTool(mcp.Tool{
		Name:        "get_meals",
		Description: "List recently logged meals, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum meals to return (default 10)",
				},
			},
		},
	}, handlers.GetMeals)

	// 6. delete_meal - Remove a logged meal
	server.AddTool(mcp.Tool{
		Name:        "delete_meal",
		Description: "Delete a logged meal by ID.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Meal ID returned by analyze_meal or get_meals",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.DeleteMeal)

	return handlers
}

// ABOUTME: MCP tool handler implementations for the foodlog server
// ABOUTME: Drives the analysis loop and meal store behind the MCP tool surface
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/harper/foodlog/internal/config"
	"github.com/harper/foodlog/internal/core"
	"github.com/harper/foodlog/internal/models"
	"github.com/harper/foodlog/internal/nutrition"
	"github.com/harper/foodlog/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains all MCP tool handlers with their dependencies
type Handlers struct {
	analyzer *core.Analyzer
	searcher core.FoodSearcher
	branded  *nutrition.BrandedStore
	meals    *sqlite.MealStore
	cfg      *config.Config
}

// analyzeResult is the JSON shape returned by the analyze_meal tool.
type analyzeResult struct {
	Meals []models.Meal `json:"meals"`
	Saved bool          `json:"saved,omitempty"`
}

// AnalyzeMeal handles the analyze_meal tool call
func (h *Handlers) AnalyzeMeal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError("description parameter is required"), nil
	}
	save := request.GetBool("save", false)

	if h.analyzer == nil {
		return mcp.NewToolResultError("analysis unavailable: ANTHROPIC_API_KEY is not set"), nil
	}

	var meals []models.Meal
	for event := range h.analyzer.Analyze(ctx, description) {
		switch event.Kind {
		case models.EventCompleted:
			meals = event.Meals
		case models.EventFailed:
			return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", event.Err)), nil
		}
	}

	result := analyzeResult{Meals: meals}
	if save {
		for i := range result.Meals {
			if err := h.meals.Save(ctx, &result.Meals[i]); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to save meal: %v", err)), nil
			}
		}
		result.Saved = true
	}

	responseJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchFoods handles the search_foods tool call
func (h *Handlers) SearchFoods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	limit := request.GetInt("limit", h.cfg.SearchLimit)
	if limit < 1 || limit > 50 {
		return mcp.NewToolResultError("limit must be between 1 and 50"), nil
	}

	candidates, err := h.searcher.Search(ctx, query, limit)
	if err != nil {
		log.Printf("[MCP] Food search failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"results": candidates,
		"count":   len(candidates),
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// LookupBarcode handles the lookup_barcode tool call
func (h *Handlers) LookupBarcode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	barcode, err := request.RequireString("barcode")
	if err != nil {
		return mcp.NewToolResultError("barcode parameter is required"), nil
	}
	grams := request.GetFloat("grams", 0)

	if h.branded == nil {
		return mcp.NewToolResultError("barcode lookup unavailable: no branded-foods database installed"), nil
	}

	product, err := h.branded.LookupBarcode(ctx, barcode)
	if err != nil {
		log.Printf("[MCP] Barcode lookup failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("barcode lookup failed: %v", err)), nil
	}
	if product == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no product found for barcode %s", barcode)), nil
	}

	response := map[string]interface{}{
		"product": product,
		"food":    product.FoodItem(grams),
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize product: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// LogMeal handles the log_meal tool call
func (h *Handlers) LogMeal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mealJSON, err := request.RequireString("meal_json")
	if err != nil {
		return mcp.NewToolResultError("meal_json parameter is required"), nil
	}

	var meal models.Meal
	if err := json.Unmarshal([]byte(mealJSON), &meal); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid meal JSON: %v", err)), nil
	}
	meal.Normalize()
	if meal.Name == "" && len(meal.Foods) == 0 {
		return mcp.NewToolResultError("meal must have a name or at least one food"), nil
	}

	if err := h.meals.Save(ctx, &meal); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save meal: %v", err)), nil
	}

	responseJSON, err := json.Marshal(meal)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize meal: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// GetMeals handles the get_meals tool call
func (h *Handlers) GetMeals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)
	if limit < 1 || limit > 100 {
		return mcp.NewToolResultError("limit must be between 1 and 100"), nil
	}

	meals, err := h.meals.List(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list meals: %v", err)), nil
	}

	response := map[string]interface{}{
		"meals": meals,
		"count": len(meals),
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize meals: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// DeleteMeal handles the delete_meal tool call
func (h *Handlers) DeleteMeal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	deleted, err := h.meals.Delete(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete meal: %v", err)), nil
	}
	if !deleted {
		return mcp.NewToolResultError(fmt.Sprintf("no meal found with ID %s", id)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted meal %s", id)), nil
}

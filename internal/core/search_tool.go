// ABOUTME: Executes one search_foods tool invocation against the lookup store
// ABOUTME: Always returns a payload; lookup failures degrade to "no matches"
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/harper/foodlog/internal/nutrition"
)

// FoodSearcher is the read-only lookup collaborator. nutrition.Store
// satisfies it; tests substitute a fake.
type FoodSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]nutrition.Candidate, error)
}

// searchPayload is the tool-result body serialized back to the model
type searchPayload struct {
	Results []nutrition.Candidate `json:"results,omitempty"`
	Message string                `json:"message,omitempty"`
}

// executeSearchTool runs one tool invocation and returns the serialized
// payload plus the match count. It never fails the loop: unknown tools and
// lookup errors both degrade to an advisory payload with zero matches.
func executeSearchTool(ctx context.Context, searcher FoodSearcher, toolName, query string, limit int) (string, int) {
	if toolName != SearchToolName {
		return serializePayload(searchPayload{
			Message: fmt.Sprintf("unknown tool %q; only %s is available", toolName, SearchToolName),
		}), 0
	}

	candidates, err := searcher.Search(ctx, query, limit)
	if err != nil {
		log.Printf("[SearchTool] lookup failed for %q: %v", query, err)
		candidates = nil
	}

	if len(candidates) == 0 {
		return serializePayload(searchPayload{
			Message: fmt.Sprintf("No matches for %q. Try different search terms.", query),
		}), 0
	}

	return serializePayload(searchPayload{Results: candidates}), len(candidates)
}

// serializePayload marshals the payload, degrading to a plain message on
// the (unreachable in practice) marshal failure
func serializePayload(p searchPayload) string {
	data, err := json.Marshal(p)
	if err != nil {
		return `{"message":"search result could not be serialized"}`
	}
	return string(data)
}

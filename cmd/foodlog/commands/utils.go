// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Consolidates collaborator setup and display formatting
package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harper/foodlog/internal/config"
	"github.com/harper/foodlog/internal/core"
	"github.com/harper/foodlog/internal/llm"
	"github.com/harper/foodlog/internal/models"
	"github.com/harper/foodlog/internal/nutrition"
	"github.com/harper/foodlog/internal/storage/sqlite"
)

// newAnalyzer wires the analysis loop from config: LLM client plus
// nutrition store. The caller owns closing the returned store.
func newAnalyzer(cfg *config.Config) (*core.Analyzer, *nutrition.Store, error) {
	if _, ok := (llm.EnvCredential{}).GetCredential(); !ok {
		return nil, nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	store, err := nutrition.Open(cfg.NutritionDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening nutrition database: %w", err)
	}

	client := llm.NewClient(llm.ClientConfig{
		Credentials: llm.EnvCredential{},
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
	})

	return core.NewAnalyzer(client, store, cfg), store, nil
}

// openMealStore opens the local meal database at the configured path,
// falling back to the XDG data directory.
func openMealStore(cfg *config.Config) (*sqlite.DB, *sqlite.MealStore, error) {
	path := cfg.DBPath
	if path == "" {
		path = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening meal database: %w", err)
	}
	return db, sqlite.NewMealStore(db), nil
}

// printMealTable writes one meal's foods and totals as a table.
func printMealTable(out *tabwriter.Writer, meal *models.Meal) {
	fmt.Fprintf(out, "FOOD\tGRAMS\tKCAL\tPROTEIN\tFAT\tCARBS\tSOURCE\n")
	for _, food := range meal.Foods {
		fmt.Fprintf(out, "%s\t%.0f\t%.0f\t%.1f\t%.1f\t%.1f\t%s\n",
			truncate(food.Name, 40),
			food.Grams,
			food.Calories,
			food.Protein,
			food.Fat,
			food.Carbs,
			food.Source)
	}
	if len(meal.Foods) > 1 {
		var grams float64
		for _, food := range meal.Foods {
			grams += food.Grams
		}
		calories, protein, fat, carbs := meal.Totals()
		fmt.Fprintf(out, "TOTAL\t%.0f\t%.0f\t%.1f\t%.1f\t%.1f\t\n",
			grams, calories, protein, fat, carbs)
	}
	out.Flush()
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// formatLoggedAt renders a meal's RFC3339 timestamp for display.
func formatLoggedAt(loggedAt string) string {
	t, err := time.Parse(time.RFC3339, loggedAt)
	if err != nil {
		return loggedAt
	}
	return formatTime(t)
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// warnf prints to stderr unless quiet is set.
func warnf(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

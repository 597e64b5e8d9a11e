// ABOUTME: CLI command to analyze a meal description
// ABOUTME: Streams analysis progress and prints the resulting nutrition table
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/foodlog/internal/config"
	"github.com/harper/foodlog/internal/models"
	"github.com/joho/godotenv"
)

var (
	analyzeSave bool
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [description]",
		Short: "Analyze a meal description",
		Long: `Analyze a natural-language meal description.

Identifies each food, looks it up in the USDA database, and prints
per-food nutrients with provenance. With --save, the analyzed meals
are logged to the local database.

Examples:
  foodlog analyze "two scrambled eggs and a slice of toast"
  foodlog analyze --save "grande latte with oat milk"
  echo "leftover pad thai, maybe 300g" | foodlog analyze`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().BoolVar(&analyzeSave, "save", false, "Log the analyzed meals")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	var description string
	if len(args) > 0 {
		description = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		description = string(data)
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("no meal description provided")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	analyzer, store, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var meals []models.Meal
	for event := range analyzer.Analyze(cmd.Context(), description) {
		switch event.Kind {
		case models.EventSearching:
			warnf("Searching: %s\n", event.Query)
		case models.EventSearchResult:
			warnf("  %d match(es) for %s\n", event.MatchCount, event.Query)
		case models.EventThinking:
			if verbose {
				warnf("Thinking: %s\n", truncate(event.Text, 120))
			}
		case models.EventEstimating:
			warnf("Estimating: %s\n", event.FoodName)
		case models.EventCompleted:
			meals = event.Meals
		case models.EventFailed:
			return fmt.Errorf("analysis failed: %w", event.Err)
		}
	}

	if analyzeSave {
		db, mealStore, err := openMealStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		for i := range meals {
			if err := mealStore.Save(cmd.Context(), &meals[i]); err != nil {
				return fmt.Errorf("saving meal: %w", err)
			}
		}
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(models.MealAnalysis{Meals: meals}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	for i := range meals {
		meal := &meals[i]
		name := meal.Name
		if name == "" {
			name = "Meal"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", name)

		if len(meal.Foods) > 0 {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			printMealTable(w, meal)
		}
		if meal.Message != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", meal.Message)
		}
		if analyzeSave && meal.ID != "" && !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Logged as %s\n", meal.ID)
		}
	}

	return nil
}

// ABOUTME: CLI command to search the USDA food database directly
// ABOUTME: Shows ranked candidates with per-100g macros
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/foodlog/internal/config"
	"github.com/harper/foodlog/internal/nutrition"
	"github.com/joho/godotenv"
)

var (
	searchLimit int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the food database",
		Long: `Search the USDA food database by keywords.

Every keyword must match; exact and prefix matches rank first.
Values shown are per 100g.

Examples:
  foodlog search "banana raw"
  foodlog search --limit 10 "cheddar"
  foodlog search --format json "egg"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum candidates to show")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := nutrition.Open(cfg.NutritionDB)
	if err != nil {
		return fmt.Errorf("opening nutrition database: %w", err)
	}
	defer func() { _ = store.Close() }()

	candidates, err := store.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if len(candidates) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No matches\n")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(candidates, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CODE\tDESCRIPTION\tKCAL\tPROTEIN\tFAT\tCARBS\n")
	for _, c := range candidates {
		fmt.Fprintf(w, "%d\t%s\t%.0f\t%.1f\t%.1f\t%.1f\n",
			c.FoodCode,
			truncate(c.Description, 50),
			c.Calories,
			c.Protein,
			c.Fat,
			c.Carbs)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d candidate(s)\n", len(candidates))
	}

	return nil
}

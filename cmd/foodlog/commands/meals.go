// ABOUTME: CLI commands to list and delete logged meals
// ABOUTME: Reads the local meal database, newest first
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/foodlog/internal/config"
	"github.com/joho/godotenv"
)

var (
	mealsLimit int
)

// NewMealsCmd creates the meals command with its subcommands
func NewMealsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "List logged meals",
		Long: `List logged meals, newest first.

Examples:
  foodlog meals
  foodlog meals --limit 50
  foodlog meals --format json
  foodlog meals delete 3f9c2e1a-...`,
		RunE: runMeals,
	}

	cmd.Flags().IntVar(&mealsLimit, "limit", 10, "Maximum meals to show")

	cmd.AddCommand(newMealsDeleteCmd())

	return cmd
}

func newMealsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a logged meal",
		Args:  cobra.ExactArgs(1),
		RunE:  runMealsDelete,
	}
}

func runMeals(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(mealsLimit, "limit"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, store, err := openMealStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	meals, err := store.List(cmd.Context(), mealsLimit)
	if err != nil {
		return fmt.Errorf("listing meals: %w", err)
	}

	if len(meals) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No meals logged\n")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(meals, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "LOGGED\tMEAL\tFOODS\tKCAL\tID\n")
	for i := range meals {
		meal := &meals[i]
		calories, _, _, _ := meal.Totals()
		name := meal.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f\t%s\n",
			formatLoggedAt(meal.LoggedAt),
			truncate(name, 30),
			len(meal.Foods),
			calories,
			meal.ID)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d meal(s)\n", len(meals))
	}

	return nil
}

func runMealsDelete(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, store, err := openMealStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	deleted, err := store.Delete(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("deleting meal: %w", err)
	}
	if !deleted {
		return fmt.Errorf("no meal found with ID %s", args[0])
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal %s\n", args[0])
	}
	return nil
}

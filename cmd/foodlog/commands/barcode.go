// ABOUTME: CLI command to look up a branded product by barcode
// ABOUTME: Prints the product with nutrients scaled to the consumed weight
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/foodlog/internal/config"
	"github.com/harper/foodlog/internal/models"
	"github.com/harper/foodlog/internal/nutrition"
	"github.com/joho/godotenv"
)

var (
	barcodeGrams float64
	barcodeSave  bool
)

// NewBarcodeCmd creates the barcode command
func NewBarcodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "barcode [gtin/upc]",
		Short: "Look up a branded product by barcode",
		Long: `Look up a branded product by its GTIN/UPC barcode.

Nutrients are scaled to --grams, defaulting to the product's labeled
serving size. With --save, the food is logged as a single-item meal.

Examples:
  foodlog barcode 0123456789012
  foodlog barcode --grams 50 0123456789012
  foodlog barcode --save 0123456789012`,
		Args: cobra.ExactArgs(1),
		RunE: runBarcode,
	}

	cmd.Flags().Float64Var(&barcodeGrams, "grams", 0, "Consumed weight in grams (default: one serving)")
	cmd.Flags().BoolVar(&barcodeSave, "save", false, "Log the product as a meal")

	return cmd
}

func runBarcode(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := nutrition.OpenBranded(cfg.BrandedDB)
	if err != nil {
		return fmt.Errorf("opening branded database: %w", err)
	}
	defer func() { _ = store.Close() }()

	product, err := store.LookupBarcode(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("looking up barcode: %w", err)
	}
	if product == nil {
		return fmt.Errorf("no product found for barcode %s", args[0])
	}

	food := product.FoodItem(barcodeGrams)
	meal := models.Meal{Name: food.Name, Foods: []models.FoodItem{food}}

	if barcodeSave {
		db, mealStore, err := openMealStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := mealStore.Save(cmd.Context(), &meal); err != nil {
			return fmt.Errorf("saving meal: %w", err)
		}
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(map[string]interface{}{
			"product": product,
			"food":    food,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", food.Name)
	if product.HouseholdServing != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Serving: %.0f%s (%s)\n",
			product.ServingSize, product.ServingUnit, product.HouseholdServing)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	printMealTable(w, &meal)

	if barcodeSave && meal.ID != "" && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Logged as %s\n", meal.ID)
	}
	return nil
}

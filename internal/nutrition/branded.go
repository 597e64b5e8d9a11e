// ABOUTME: Read-only branded-foods lookup keyed by GTIN/UPC barcode
// ABOUTME: Schema matches the branded.sqlite files built by the dataset converters
package nutrition

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/harper/foodlog/internal/models"
)

// BrandedSchema creates the branded-foods table. Like Schema, the shipped
// database is built offline by the USDA converter scripts.
const BrandedSchema = `
CREATE TABLE IF NOT EXISTS branded_foods (
    barcode TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    brand TEXT,
    serving_size REAL,
    serving_unit TEXT,
    household_serving TEXT,
    calories REAL DEFAULT 0,
    protein_g REAL DEFAULT 0,
    fat_g REAL DEFAULT 0,
    carbs_g REAL DEFAULT 0,
    fiber_g REAL DEFAULT 0,
    sugar_g REAL DEFAULT 0,
    sodium_mg REAL DEFAULT 0,
    saturated_fat_g REAL DEFAULT 0
);
`

// BrandedFood is one barcode-keyed product. Macro values are per 100g;
// ServingSize is the labeled serving in ServingUnit (usually grams).
type BrandedFood struct {
	Barcode          string  `json:"barcode"`
	Description      string  `json:"description"`
	Brand            string  `json:"brand,omitempty"`
	ServingSize      float64 `json:"serving_size,omitempty"`
	ServingUnit      string  `json:"serving_unit,omitempty"`
	HouseholdServing string  `json:"household_serving,omitempty"`
	Calories         float64 `json:"calories_per_100g"`
	Protein          float64 `json:"protein_per_100g"`
	Fat              float64 `json:"fat_per_100g"`
	Carbs            float64 `json:"carbs_per_100g"`
	Fiber            float64 `json:"fiber_per_100g"`
	Sugar            float64 `json:"sugar_per_100g"`
	SodiumMg         float64 `json:"sodium_mg_per_100g"`
	SaturatedFat     float64 `json:"saturated_fat_per_100g"`
}

// FoodItem converts the product into a logged food of the given weight,
// scaling the per-100g values. Non-positive grams fall back to the labeled
// serving size, then to 100g.
func (b *BrandedFood) FoodItem(grams float64) models.FoodItem {
	if grams <= 0 {
		grams = b.ServingSize
	}
	if grams <= 0 {
		grams = 100
	}
	scale := grams / 100

	name := b.Description
	if b.Brand != "" {
		name = fmt.Sprintf("%s (%s)", b.Description, b.Brand)
	}

	code, _ := strconv.ParseInt(b.Barcode, 10, 64)
	return models.FoodItem{
		Name:               name,
		Grams:              grams,
		Calories:           b.Calories * scale,
		Protein:            b.Protein * scale,
		Fat:                b.Fat * scale,
		Carbs:              b.Carbs * scale,
		Fiber:              b.Fiber * scale,
		Sugar:              b.Sugar * scale,
		Source:             models.SourceBarcode,
		FoodCode:           models.FoodCode(code),
		MatchedDescription: b.Description,
	}
}

// BrandedStore is a read-only handle on the branded-foods database. Safe
// for concurrent use; it never writes.
type BrandedStore struct {
	db *sql.DB
}

// OpenBranded opens the branded-foods database in read-only mode
func OpenBranded(path string) (*BrandedStore, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening branded database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("branded database unavailable at %s: %w", path, err)
	}
	return &BrandedStore{db: db}, nil
}

// Close closes the underlying database
func (s *BrandedStore) Close() error {
	return s.db.Close()
}

// LookupBarcode returns the product for a GTIN/UPC barcode, or nil when
// the barcode is unknown. Surrounding whitespace is ignored.
func (s *BrandedStore) LookupBarcode(ctx context.Context, barcode string) (*BrandedFood, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, nil
	}

	var b BrandedFood
	var brand, servingUnit, household sql.NullString
	var servingSize sql.NullFloat64

	err := s.db.QueryRowContext(ctx, `
		SELECT barcode, description, brand, serving_size, serving_unit, household_serving,
		       calories, protein_g, fat_g, carbs_g, fiber_g, sugar_g, sodium_mg, saturated_fat_g
		FROM branded_foods
		WHERE barcode = ?
	`, barcode).Scan(&b.Barcode, &b.Description, &brand, &servingSize, &servingUnit, &household,
		&b.Calories, &b.Protein, &b.Fat, &b.Carbs, &b.Fiber, &b.Sugar, &b.SodiumMg, &b.SaturatedFat)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up barcode %s: %w", barcode, err)
	}

	b.Brand = brand.String
	b.ServingSize = servingSize.Float64
	b.ServingUnit = servingUnit.String
	b.HouseholdServing = household.String
	return &b, nil
}

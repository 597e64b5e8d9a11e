// ABOUTME: Plausibility checks on finalized foods
// ABOUTME: Pure functions; warnings are advisory and appended to the meal message
package core

import (
	"fmt"

	"github.com/harper/foodlog/internal/models"
)

// CheckFood returns a human-readable warning when a food's macros look
// implausible, or "" when nothing stands out. At most one warning per food.
func CheckFood(f models.FoodItem) string {
	if f.Grams <= 0 {
		return ""
	}

	per100 := func(v float64) float64 { return v / f.Grams * 100 }

	if per100(f.Calories) < 30 && f.Grams > 100 {
		return fmt.Sprintf("%s (%.0fg) seems low in calories; double-check the match.", f.Name, f.Grams)
	}
	if per100(f.Protein) > 50 {
		return fmt.Sprintf("%s seems unusually high in protein; the matched food may be wrong.", f.Name)
	}
	return ""
}

// annotateMeal appends one warning per flagged food to the meal's message
func annotateMeal(m *models.Meal) {
	for _, f := range m.Foods {
		if w := CheckFood(f); w != "" {
			m.AppendMessage(w)
		}
	}
}

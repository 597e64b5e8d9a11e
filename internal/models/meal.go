// ABOUTME: Meal groups analyzed foods with an optional label and message
// ABOUTME: Immutable after the analysis loop finishes; ownership passes to the caller
package models

// Meal is one analyzed meal. A single analysis may split into several meals
// ("Breakfast" and "Lunch" in one description) or carry no foods at all and
// only a message for the user.
type Meal struct {
	ID       string     `json:"id,omitempty"`
	Name     string     `json:"meal_name,omitempty"`
	Foods    []FoodItem `json:"foods"`
	Message  string     `json:"message,omitempty"`
	LoggedAt string     `json:"logged_at,omitempty"` // RFC 3339 when the model can infer one
}

// MealAnalysis is the top-level result of one analysis run
type MealAnalysis struct {
	Meals []Meal `json:"meals"`
}

// Totals sums the macro nutrients across all foods in the meal
func (m *Meal) Totals() (calories, protein, fat, carbs float64) {
	for _, f := range m.Foods {
		calories += f.Calories
		protein += f.Protein
		fat += f.Fat
		carbs += f.Carbs
	}
	return calories, protein, fat, carbs
}

// Normalize applies the per-food provenance rules
func (m *Meal) Normalize() {
	for i := range m.Foods {
		m.Foods[i].Normalize()
	}
}

// AppendMessage adds text to the meal message, space-separated
func (m *Meal) AppendMessage(text string) {
	if text == "" {
		return
	}
	if m.Message == "" {
		m.Message = text
		return
	}
	m.Message += " " + text
}

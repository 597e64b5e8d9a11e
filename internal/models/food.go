// ABOUTME: FoodItem represents one analyzed food with per-item macros
// ABOUTME: Field names match the JSON contract the model is prompted to emit
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Source tags where a food's nutrient values came from
type Source string

const (
	// SourceDatabase means the values came from a matched lookup record
	SourceDatabase Source = "database"
	// SourceEstimate means the model estimated the values itself
	SourceEstimate Source = "estimate"
	// SourceBarcode means the values came from a barcode record
	SourceBarcode Source = "barcode"
)

// FoodCode is a lookup-record identifier. Models emit it as either a JSON
// number or a numeric string; both decode to the same integer.
type FoodCode int64

// UnmarshalJSON accepts 12345, "12345", and null
func (c *FoodCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*c = 0
		return nil
	}
	s := string(data)
	if s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid food code %s: %w", s, err)
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			*c = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid food code %q: %w", s, err)
	}
	*c = FoodCode(n)
	return nil
}

// MarshalJSON always emits a plain number
func (c FoodCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(c))
}

// FoodItem is one food in a finalized meal analysis
type FoodItem struct {
	Name               string   `json:"food_name"`
	Grams              float64  `json:"grams"`
	Calories           float64  `json:"calories"`
	Protein            float64  `json:"protein_g"`
	Fat                float64  `json:"fat_g"`
	Carbs              float64  `json:"carbs_g"`
	Fiber              float64  `json:"fiber_g"`
	Sugar              float64  `json:"sugar_g"`
	Source             Source   `json:"source"`
	FoodCode           FoodCode `json:"food_code,omitempty"`
	MatchedDescription string   `json:"matched_description,omitempty"`
}

// Normalize enforces the provenance rules on untrusted model output: a
// database/barcode food without a source linkage is downgraded to an
// estimate, and an estimate carries no source linkage at all.
func (f *FoodItem) Normalize() {
	switch f.Source {
	case SourceDatabase, SourceBarcode:
		if f.FoodCode == 0 || f.MatchedDescription == "" {
			f.Source = SourceEstimate
			f.FoodCode = 0
			f.MatchedDescription = ""
		}
	case SourceEstimate:
		f.FoodCode = 0
		f.MatchedDescription = ""
	default:
		f.Source = SourceEstimate
		f.FoodCode = 0
		f.MatchedDescription = ""
	}
}

// ABOUTME: Repairs and parses near-JSON model output into a MealAnalysis
// ABOUTME: Balanced extraction, truncation repair, and a message-only fallback
package core

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/harper/foodlog/internal/models"
)

// ErrEmptyOutput means the model produced no usable text at all
var ErrEmptyOutput = errors.New("model output contained no text")

var (
	analysisStartRe = regexp.MustCompile(`\{\s*"(?:meals|foods)"\s*:`)
	messageStartRe  = regexp.MustCompile(`\{\s*"message"\s*:`)
)

// ParseAnalysis turns raw model output into a meal analysis. Models wrap
// their JSON in prose and markdown fences, and long answers get truncated
// mid-object, so this tries progressively more forgiving strategies and,
// as a last resort, wraps the cleaned text as a message-only result rather
// than failing a conversational reply.
func ParseAnalysis(raw string) (*models.MealAnalysis, error) {
	cleaned := strings.TrimSpace(stripFences(strings.TrimSpace(raw)))
	if cleaned == "" {
		return nil, ErrEmptyOutput
	}

	// An object opening with a "meals" or "foods" key, balanced
	if loc := analysisStartRe.FindStringIndex(cleaned); loc != nil {
		if obj, ok := extractBalancedFrom(cleaned, loc[0]); ok {
			if analysis, ok := decodeAnalysis(obj); ok {
				return analysis, nil
			}
		} else if repaired, ok := repairTruncated(cleaned[loc[0]:]); ok {
			// Balanced extraction failed: the output was cut off mid-object
			if analysis, ok := decodeAnalysis(repaired); ok {
				return analysis, nil
			}
		}
	}

	// A message-only object
	if loc := messageStartRe.FindStringIndex(cleaned); loc != nil {
		if obj, ok := extractBalancedFrom(cleaned, loc[0]); ok {
			if analysis, ok := decodeAnalysis(obj); ok {
				return analysis, nil
			}
		}
	}

	// The whole cleaned text as the result type
	if analysis, ok := decodeAnalysis(cleaned); ok {
		return analysis, nil
	}

	// Conversational reply: surface it to the user instead of failing
	return &models.MealAnalysis{Meals: []models.Meal{{Message: cleaned}}}, nil
}

// stripFences removes a single markdown code fence (with an optional
// language tag) and returns its contents. Prose around the fence is
// discarded; an unterminated fence keeps everything after the marker.
func stripFences(s string) string {
	start := strings.Index(s, "```")
	if start == -1 {
		return s
	}
	rest := s[start+3:]
	nl := strings.IndexByte(rest, '\n')
	if nl == -1 {
		return s
	}
	rest = rest[nl+1:]
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

// ExtractJSON returns the first balanced JSON object embedded in s,
// tracking string-escape state so braces inside literals are ignored.
func ExtractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}
	return extractBalancedFrom(s, start)
}

// extractBalancedFrom scans from the object opening at start until nesting
// depth returns to zero
func extractBalancedFrom(s string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// repairTruncated recovers a document cut off mid-element. It scans from
// the first array opening, remembers the end of the last element that
// fully closed back to the array's level, truncates there, and re-closes
// the array and enclosing object. The partial trailing element is
// discarded, never guessed at.
func repairTruncated(s string) (string, bool) {
	arrayStart := strings.IndexByte(s, '[')
	if arrayStart == -1 {
		return "", false
	}

	depth := 1 // inside the array
	inString := false
	escaped := false
	lastComplete := -1

	for i := arrayStart + 1; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				if depth == 1 {
					lastComplete = i + 1
				}
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 1 {
				lastComplete = i + 1
			}
			if depth == 0 {
				// The array actually closed; nothing to repair
				return "", false
			}
		}
	}

	if lastComplete == -1 {
		return "", false
	}
	return s[:lastComplete] + "]}", true
}

// decodeAnalysis decodes an extracted JSON document, accepting both the
// {"meals":[...]} shape and the flat {"foods":[...],"message":...} shape
func decodeAnalysis(jsonStr string) (*models.MealAnalysis, bool) {
	var probe struct {
		Meals    []models.Meal     `json:"meals"`
		MealName string            `json:"meal_name"`
		Foods    []models.FoodItem `json:"foods"`
		Message  string            `json:"message"`
		LoggedAt string            `json:"logged_at"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &probe); err != nil {
		return nil, false
	}

	var analysis models.MealAnalysis
	switch {
	case probe.Meals != nil:
		analysis.Meals = probe.Meals
	case probe.Foods != nil || probe.Message != "":
		analysis.Meals = []models.Meal{{
			Name:     probe.MealName,
			Foods:    probe.Foods,
			Message:  probe.Message,
			LoggedAt: probe.LoggedAt,
		}}
	default:
		return nil, false
	}

	for i := range analysis.Meals {
		analysis.Meals[i].Normalize()
	}
	return &analysis, true
}

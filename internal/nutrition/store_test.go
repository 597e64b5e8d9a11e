// ABOUTME: Tests for the food lookup store's ranked keyword search
// ABOUTME: Uses a temp-dir fixture database built from the exported schema
package nutrition

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// newFixtureStore builds a small lookup database and opens it read-only
func newFixtureStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fndds.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening fixture db: %v", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	foods := []struct {
		code     int64
		desc     string
		calories float64
		protein  float64
	}{
		{11100000, "Banana, raw", 89, 1.1},
		{11100500, "Banana, baked", 135, 1.3},
		{11111111, "Banana bread", 326, 4.3},
		{22222222, "Plantain, raw", 122, 1.3},
		{33333333, "Egg, whole, raw", 143, 12.6},
	}
	for _, f := range foods {
		if _, err := db.Exec(`INSERT INTO foods (food_code, description, energy_kcal, protein_g) VALUES (?, ?, ?, ?)`,
			f.code, f.desc, f.calories, f.protein); err != nil {
			t.Fatalf("inserting food: %v", err)
		}
	}
	if _, err := db.Exec(`INSERT INTO portions (food_code, description, gram_weight) VALUES (11100000, '1 medium', 118)`); err != nil {
		t.Fatalf("inserting portion: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO portions (food_code, description, gram_weight) VALUES (11100000, '1 cup, sliced', 150)`); err != nil {
		t.Fatalf("inserting portion: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("closing fixture db: %v", err)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSearch_ExactMatchFirst(t *testing.T) {
	store := newFixtureStore(t)

	results, err := store.Search(context.Background(), "banana, raw", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Description != "Banana, raw" {
		t.Errorf("top result = %q, want exact match first", results[0].Description)
	}
	if results[0].FoodCode != 11100000 {
		t.Errorf("top food code = %d, want 11100000", results[0].FoodCode)
	}
}

func TestSearch_AllTokensMustMatch(t *testing.T) {
	store := newFixtureStore(t)

	results, err := store.Search(context.Background(), "banana bread", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Description != "Banana bread" {
		t.Errorf("result = %q, want Banana bread", results[0].Description)
	}
}

func TestSearch_LimitRespected(t *testing.T) {
	store := newFixtureStore(t)

	results, err := store.Search(context.Background(), "banana", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}
}

func TestSearch_ZeroMatchesIsNotAnError(t *testing.T) {
	store := newFixtureStore(t)

	results, err := store.Search(context.Background(), "xylophone stew", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	store := newFixtureStore(t)

	results, err := store.Search(context.Background(), "   ", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results != nil {
		t.Errorf("results = %v, want nil for empty query", results)
	}
}

func TestSearch_PortionsAttached(t *testing.T) {
	store := newFixtureStore(t)

	results, err := store.Search(context.Background(), "banana, raw", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if len(results[0].Portions) != 2 {
		t.Fatalf("portions = %d, want 2", len(results[0].Portions))
	}
	if results[0].Portions[0].Description != "1 medium" || results[0].Portions[0].GramWeight != 118 {
		t.Errorf("first portion = %+v", results[0].Portions[0])
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	store := newFixtureStore(t)

	results, err := store.Search(context.Background(), "BANANA", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("results = %d, want 3", len(results))
	}
}

func TestSearch_WildcardsStripped(t *testing.T) {
	store := newFixtureStore(t)

	// a bare % must not match everything
	results, err := store.Search(context.Background(), "%", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0 for wildcard-only query", len(results))
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.sqlite"))
	if err == nil {
		t.Fatal("expected error for missing database file")
	}
}

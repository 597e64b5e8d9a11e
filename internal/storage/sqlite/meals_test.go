// ABOUTME: Tests for meal persistence round-trips
// ABOUTME: Each test opens a fresh database under a temp directory
package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/harper/foodlog/internal/models"
)

func newTestStore(t *testing.T) *MealStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "foodlog.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMealStore(db)
}

func sampleMeal() *models.Meal {
	return &models.Meal{
		Name:     "Breakfast",
		Message:  "Logged 2 items.",
		LoggedAt: "2026-09-01T08:30:00Z",
		Foods: []models.FoodItem{
			{
				Name: "Banana", Grams: 118, Calories: 105, Protein: 1.3, Fat: 0.4,
				Carbs: 27, Fiber: 3.1, Sugar: 14.4,
				Source: models.SourceDatabase, FoodCode: 11100000, MatchedDescription: "Banana, raw",
			},
			{Name: "Coffee", Grams: 240, Calories: 2, Source: models.SourceEstimate},
		},
	}
}

func TestMealStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	meal := sampleMeal()
	if err := store.Save(ctx, meal); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if meal.ID == "" {
		t.Fatal("Save should assign an ID")
	}

	got, err := store.GetByID(ctx, meal.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("meal not found after save")
	}

	if got.Name != "Breakfast" || got.Message != "Logged 2 items." {
		t.Errorf("meal = %+v", got)
	}
	if len(got.Foods) != 2 {
		t.Fatalf("foods = %d, want 2", len(got.Foods))
	}

	banana := got.Foods[0]
	if banana.Name != "Banana" || banana.Grams != 118 {
		t.Errorf("banana = %+v", banana)
	}
	if banana.Source != models.SourceDatabase || banana.FoodCode != 11100000 || banana.MatchedDescription != "Banana, raw" {
		t.Errorf("banana provenance = %+v", banana)
	}

	coffee := got.Foods[1]
	if coffee.Source != models.SourceEstimate || coffee.FoodCode != 0 || coffee.MatchedDescription != "" {
		t.Errorf("coffee provenance = %+v", coffee)
	}
}

func TestMealStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil for missing meal", got)
	}
}

func TestMealStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := sampleMeal()
	older.Name = "Older"
	older.LoggedAt = "2026-08-31T08:00:00Z"
	newer := sampleMeal()
	newer.Name = "Newer"
	newer.LoggedAt = "2026-09-01T08:00:00Z"

	if err := store.Save(ctx, older); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, newer); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	meals, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("meals = %d, want 2", len(meals))
	}
	if meals[0].Name != "Newer" || meals[1].Name != "Older" {
		t.Errorf("order = %q, %q; want newest first", meals[0].Name, meals[1].Name)
	}
	if len(meals[0].Foods) != 2 {
		t.Errorf("listed meal foods = %d, want 2", len(meals[0].Foods))
	}
}

func TestMealStore_DeleteCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	meal := sampleMeal()
	if err := store.Save(ctx, meal); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	deleted, err := store.Delete(ctx, meal.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Fatal("Delete reported nothing removed")
	}

	var count int
	if err := store.db.Conn().QueryRow(`SELECT COUNT(*) FROM foods`).Scan(&count); err != nil {
		t.Fatalf("counting foods: %v", err)
	}
	if count != 0 {
		t.Errorf("foods remaining = %d, want 0 after cascade", count)
	}

	deleted, err = store.Delete(ctx, meal.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if deleted {
		t.Error("second Delete should report nothing removed")
	}
}

func TestMealStore_SaveWithoutTimestampUsesNow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	meal := sampleMeal()
	meal.LoggedAt = ""

	if err := store.Save(ctx, meal); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if meal.LoggedAt == "" {
		t.Error("Save should populate LoggedAt")
	}

	got, err := store.GetByID(ctx, meal.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LoggedAt == "" {
		t.Error("LoggedAt should be populated on save")
	}
}

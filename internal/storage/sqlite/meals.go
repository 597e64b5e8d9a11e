// ABOUTME: Meal persistence operations for SQLite
// ABOUTME: Implements save, load, list, and delete for finalized meals
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/foodlog/internal/models"
)

// MealStore handles finalized-meal persistence
type MealStore struct {
	db *DB
}

// NewMealStore creates a new MealStore
func NewMealStore(db *DB) *MealStore {
	return &MealStore{db: db}
}

// Save persists a meal and its foods, assigning an ID and timestamp when
// the meal has none. The meal is updated in place.
func (s *MealStore) Save(ctx context.Context, meal *models.Meal) error {
	if meal.ID == "" {
		meal.ID = uuid.New().String()
	}

	loggedAt := time.Now()
	if meal.LoggedAt != "" {
		if t, err := time.Parse(time.RFC3339, meal.LoggedAt); err == nil {
			loggedAt = t
		}
	}
	meal.LoggedAt = loggedAt.Format(time.RFC3339)

	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meals (id, name, message, logged_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			message = excluded.message,
			logged_at = excluded.logged_at
	`, meal.ID, nullString(meal.Name), nullString(meal.Message), loggedAt)
	if err != nil {
		return fmt.Errorf("saving meal: %w", err)
	}

	// Replace foods wholesale; meals are immutable after analysis so this
	// only matters for re-saves of an edited copy
	if _, err := tx.ExecContext(ctx, `DELETE FROM foods WHERE meal_id = ?`, meal.ID); err != nil {
		return fmt.Errorf("clearing foods: %w", err)
	}
	for _, f := range meal.Foods {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO foods (meal_id, name, grams, energy_kcal, protein_g, fat_g, carbs_g, fiber_g, sugar_g, source, food_code, matched_description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, meal.ID, f.Name, f.Grams, f.Calories, f.Protein, f.Fat, f.Carbs, f.Fiber, f.Sugar,
			string(f.Source), nullInt64(int64(f.FoodCode)), nullString(f.MatchedDescription))
		if err != nil {
			return fmt.Errorf("saving food %q: %w", f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing meal: %w", err)
	}
	return nil
}

// GetByID retrieves a meal with its foods. Returns nil when not found.
func (s *MealStore) GetByID(ctx context.Context, id string) (*models.Meal, error) {
	var (
		meal     models.Meal
		name     sql.NullString
		message  sql.NullString
		loggedAt time.Time
	)

	err := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, name, message, logged_at
		FROM meals
		WHERE id = ?
	`, id).Scan(&meal.ID, &name, &message, &loggedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading meal: %w", err)
	}

	meal.Name = name.String
	meal.Message = message.String
	meal.LoggedAt = loggedAt.Format(time.RFC3339)

	foods, err := s.foodsFor(ctx, meal.ID)
	if err != nil {
		return nil, err
	}
	meal.Foods = foods
	return &meal, nil
}

// List returns the most recent meals, newest first
func (s *MealStore) List(ctx context.Context, limit int) ([]models.Meal, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, name, message, logged_at
		FROM meals
		ORDER BY logged_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var (
			meal     models.Meal
			name     sql.NullString
			message  sql.NullString
			loggedAt time.Time
		)
		if err := rows.Scan(&meal.ID, &name, &message, &loggedAt); err != nil {
			return nil, fmt.Errorf("scanning meal row: %w", err)
		}
		meal.Name = name.String
		meal.Message = message.String
		meal.LoggedAt = loggedAt.Format(time.RFC3339)
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading meal rows: %w", err)
	}

	for i := range meals {
		foods, err := s.foodsFor(ctx, meals[i].ID)
		if err != nil {
			return nil, err
		}
		meals[i].Foods = foods
	}
	return meals, nil
}

// Delete removes a meal and, via cascade, its foods. Reports whether a
// meal was actually deleted.
func (s *MealStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting meal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking delete result: %w", err)
	}
	return n > 0, nil
}

// foodsFor loads the foods of one meal in insertion order
func (s *MealStore) foodsFor(ctx context.Context, mealID string) ([]models.FoodItem, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT name, grams, energy_kcal, protein_g, fat_g, carbs_g, fiber_g, sugar_g, source, food_code, matched_description
		FROM foods
		WHERE meal_id = ?
		ORDER BY id
	`, mealID)
	if err != nil {
		return nil, fmt.Errorf("loading foods: %w", err)
	}
	defer rows.Close()

	var foods []models.FoodItem
	for rows.Next() {
		var (
			f       models.FoodItem
			source  string
			code    sql.NullInt64
			matched sql.NullString
		)
		if err := rows.Scan(&f.Name, &f.Grams, &f.Calories, &f.Protein, &f.Fat,
			&f.Carbs, &f.Fiber, &f.Sugar, &source, &code, &matched); err != nil {
			return nil, fmt.Errorf("scanning food row: %w", err)
		}
		f.Source = models.Source(source)
		if code.Valid {
			f.FoodCode = models.FoodCode(code.Int64)
		}
		f.MatchedDescription = matched.String
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

// nullString converts empty strings to NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt64 converts zero to NULL
func nullInt64(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}

// ABOUTME: Read-only USDA food lookup store with ranked keyword search
// ABOUTME: Schema matches the fndds.sqlite files built by the dataset converters
package nutrition

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Schema creates the lookup tables. The shipped database is built offline
// by the USDA converter scripts; the schema is exported so tests (and the
// converters' Go counterpart, if one is ever written) stay in sync.
const Schema = `
CREATE TABLE IF NOT EXISTS foods (
    food_code INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    energy_kcal REAL DEFAULT 0,
    protein_g REAL DEFAULT 0,
    fat_g REAL DEFAULT 0,
    carbohydrate_g REAL DEFAULT 0,
    fiber_g REAL DEFAULT 0,
    sugar_g REAL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS portions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    food_code INTEGER NOT NULL,
    description TEXT NOT NULL,
    gram_weight REAL NOT NULL,
    FOREIGN KEY (food_code) REFERENCES foods(food_code)
);

CREATE INDEX IF NOT EXISTS idx_portions_food_code ON portions(food_code);
`

// Portion is a discrete serving hint ("1 medium", "1 cup, sliced")
type Portion struct {
	Description string  `json:"description"`
	GramWeight  float64 `json:"gram_weight"`
}

// Candidate is one ranked search result with per-100g macros
type Candidate struct {
	FoodCode    int64     `json:"food_code"`
	Description string    `json:"description"`
	Calories    float64   `json:"calories_per_100g"`
	Protein     float64   `json:"protein_per_100g"`
	Fat         float64   `json:"fat_per_100g"`
	Carbs       float64   `json:"carbs_per_100g"`
	Fiber       float64   `json:"fiber_per_100g"`
	Sugar       float64   `json:"sugar_per_100g"`
	Portions    []Portion `json:"portions,omitempty"`
}

// Store is a read-only handle on the lookup database. Safe for concurrent
// use; it never writes.
type Store struct {
	db *sql.DB
}

// Open opens the lookup database in read-only mode
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening nutrition database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("nutrition database unavailable at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Search returns up to limit candidates whose description contains every
// query token, best matches first. Zero matches is a normal outcome and
// returns an empty slice with no error.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 || limit < 1 {
		return nil, nil
	}

	var (
		where []string
		args  []any
	)
	for _, tok := range tokens {
		tok = escapeLike(tok)
		if tok == "" {
			continue
		}
		where = append(where, "LOWER(description) LIKE ?")
		args = append(args, "%"+tok+"%")
	}
	if len(where) == 0 {
		return nil, nil
	}

	// Over-fetch so ranking has something to choose from
	args = append(args, limit*10)
	rows, err := s.db.QueryContext(ctx, `
		SELECT food_code, description, energy_kcal, protein_g, fat_g, carbohydrate_g, fiber_g, sugar_g
		FROM foods
		WHERE `+strings.Join(where, " AND ")+`
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("searching foods: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.FoodCode, &c.Description, &c.Calories, &c.Protein,
			&c.Fat, &c.Carbs, &c.Fiber, &c.Sugar); err != nil {
			return nil, fmt.Errorf("scanning food row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading food rows: %w", err)
	}

	rankCandidates(candidates, strings.ToLower(strings.TrimSpace(query)))
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	for i := range candidates {
		portions, err := s.portionsFor(ctx, candidates[i].FoodCode)
		if err != nil {
			return nil, err
		}
		candidates[i].Portions = portions
	}

	return candidates, nil
}

// rankCandidates sorts in place: exact description match first, then prefix
// matches, then shorter descriptions (less qualified entries rank higher)
func rankCandidates(candidates []Candidate, query string) {
	score := func(c Candidate) int {
		desc := strings.ToLower(c.Description)
		switch {
		case desc == query:
			return 0
		case strings.HasPrefix(desc, query):
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := score(candidates[i]), score(candidates[j])
		if si != sj {
			return si < sj
		}
		return len(candidates[i].Description) < len(candidates[j].Description)
	})
}

// portionsFor loads the serving hints for one food
func (s *Store) portionsFor(ctx context.Context, foodCode int64) ([]Portion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT description, gram_weight
		FROM portions
		WHERE food_code = ?
		ORDER BY id
	`, foodCode)
	if err != nil {
		return nil, fmt.Errorf("loading portions: %w", err)
	}
	defer rows.Close()

	var portions []Portion
	for rows.Next() {
		var p Portion
		if err := rows.Scan(&p.Description, &p.GramWeight); err != nil {
			return nil, fmt.Errorf("scanning portion row: %w", err)
		}
		portions = append(portions, p)
	}
	return portions, rows.Err()
}

// escapeLike strips LIKE wildcards from a token. SQLite treats % and _ as
// wildcards even inside parameters.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "_", "")
	return strings.TrimSpace(s)
}

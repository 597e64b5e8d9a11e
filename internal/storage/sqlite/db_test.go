// ABOUTME: Tests for database opening and migration
// ABOUTME: Covers directory creation, idempotent schema, and foreign keys
package sqlite

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesDataDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "foodlog.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("data directory missing: %v", err)
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foodlog.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()
}

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "foodlog.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	var enabled int
	if err := db.Conn().QueryRow(`PRAGMA foreign_keys`).Scan(&enabled); err != nil {
		t.Fatalf("querying pragma: %v", err)
	}
	if enabled != 1 {
		t.Error("foreign keys off; meal deletes would orphan foods")
	}

	// Orphan inserts must be rejected outright.
	_, err = db.Conn().Exec(
		`INSERT INTO foods (meal_id, name, grams) VALUES ('ghost', 'Toast', 30)`,
	)
	if err == nil {
		t.Error("insert with missing meal should violate the foreign key")
	}
}

func TestDefaultDBPath_UsesXDGDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	got := DefaultDBPath()
	want := filepath.Join("/tmp/xdg-data", "foodlog", "foodlog.db")
	if got != want {
		t.Errorf("DefaultDBPath() = %q, want %q", got, want)
	}
}

// ABOUTME: Tests for search command structure
// ABOUTME: Verifies flags and argument validation

package commands

import (
	"bytes"
	"testing"
)

func TestNewSearchCmd(t *testing.T) {
	cmd := NewSearchCmd()

	if cmd.Use != "search [query]" {
		t.Errorf("Use = %q, want %q", cmd.Use, "search [query]")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}

func TestSearchCmd_LimitFlag(t *testing.T) {
	cmd := NewSearchCmd()

	flag := cmd.Flags().Lookup("limit")
	if flag == nil {
		t.Fatal("--limit flag not found")
	}
	if flag.DefValue != "5" {
		t.Errorf("--limit default = %q, want %q", flag.DefValue, "5")
	}
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	cmd := NewSearchCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error without a query argument")
	}
}

func TestSearchCmd_RejectsNonPositiveLimit(t *testing.T) {
	cmd := NewSearchCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"--limit", "0", "banana"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for zero limit")
	}
}

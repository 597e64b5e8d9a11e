// ABOUTME: Tests for analyze command structure
// ABOUTME: Verifies flags, argument handling, and input validation

package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewAnalyzeCmd(t *testing.T) {
	cmd := NewAnalyzeCmd()

	if !strings.HasPrefix(cmd.Use, "analyze") {
		t.Errorf("Use = %q, want analyze prefix", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}

func TestAnalyzeCmd_SaveFlag(t *testing.T) {
	cmd := NewAnalyzeCmd()

	flag := cmd.Flags().Lookup("save")
	if flag == nil {
		t.Fatal("--save flag not found")
	}
	if flag.DefValue != "false" {
		t.Errorf("--save default = %q, want %q", flag.DefValue, "false")
	}
}

func TestAnalyzeCmd_RejectsExtraArgs(t *testing.T) {
	cmd := NewAnalyzeCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"eggs", "toast"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for more than one argument")
	}
}

func TestAnalyzeCmd_RequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	cmd := NewAnalyzeCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"two eggs"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error without API key")
	}
	if !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Errorf("error = %v, want mention of ANTHROPIC_API_KEY", err)
	}
}

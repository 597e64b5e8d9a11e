// ABOUTME: Tests for the fixed retry schedule
// ABOUTME: Validates the 2s/3s ladder and the zero-attempt edge
package util

import (
	"testing"
	"time"
)

func TestRetryDelay_ZeroAttempt(t *testing.T) {
	if d := RetryDelay(0); d != 0 {
		t.Errorf("expected 0 for attempt 0, got %v", d)
	}
}

func TestRetryDelay_NegativeAttempt(t *testing.T) {
	if d := RetryDelay(-3); d != 0 {
		t.Errorf("expected 0 for negative attempt, got %v", d)
	}
}

func TestRetryDelay_Schedule(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 2 * time.Second},
		{2, 3 * time.Second},
		{3, 3 * time.Second},
		{10, 3 * time.Second},
	}

	for _, tt := range tests {
		if d := RetryDelay(tt.attempt); d != tt.want {
			t.Errorf("RetryDelay(%d) = %v, want %v", tt.attempt, d, tt.want)
		}
	}
}

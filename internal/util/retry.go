// ABOUTME: Retry schedule for transport calls to the model API
// ABOUTME: Fixed delays, no jitter, so retry timing is deterministic under test
package util

import "time"

// RetryDelay returns the wait before the given retry attempt (1-based).
// The schedule is fixed: 2s before the first retry, 3s before any later one.
func RetryDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt == 1 {
		return 2 * time.Second
	}
	return 3 * time.Second
}

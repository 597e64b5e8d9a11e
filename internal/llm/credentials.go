// ABOUTME: Credential provider abstraction for the Anthropic API key
// ABOUTME: Env-backed by default; tests inject a static provider
package llm

import (
	"errors"
	"os"
)

// ErrNoCredential means no API key is available. Never retried.
var ErrNoCredential = errors.New("no API key configured (set ANTHROPIC_API_KEY)")

// CredentialProvider supplies the API key for transport calls
type CredentialProvider interface {
	// GetCredential returns the key and whether one is available
	GetCredential() (string, bool)
}

// EnvCredential reads the key from the ANTHROPIC_API_KEY environment variable
type EnvCredential struct{}

func (EnvCredential) GetCredential() (string, bool) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	return key, key != ""
}

// StaticCredential holds a fixed key (tests, embedded deployments)
type StaticCredential string

func (s StaticCredential) GetCredential() (string, bool) {
	return string(s), s != ""
}

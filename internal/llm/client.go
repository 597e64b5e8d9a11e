// ABOUTME: Anthropic messages API client with bounded retry
// ABOUTME: Distinguishes fatal credential errors from retryable transient failures
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harper/foodlog/internal/util"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

// Client performs request/response calls against the messages endpoint.
// It holds no conversation state; each call is independent.
type Client struct {
	creds      CredentialProvider
	baseURL    string
	httpClient *http.Client
	maxRetries int

	// overridable in tests to avoid real sleeps
	retryWait func(attempt int) time.Duration
}

// ClientConfig holds configuration for the transport client
type ClientConfig struct {
	Credentials CredentialProvider
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
}

// NewClient creates a transport client. Zero-value config fields get
// defaults: env credentials, 30s timeout. MaxRetries of zero means no
// retries.
func NewClient(cfg ClientConfig) *Client {
	creds := cfg.Credentials
	if creds == nil {
		creds = EnvCredential{}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		creds:      creds,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		retryWait:  util.RetryDelay,
	}
}

// apiError is a non-2xx response from the messages endpoint
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("anthropic API returned status %d: %s", e.StatusCode, e.Body)
}

// CreateMessage performs one messages call, retrying any HTTP or network
// failure up to maxRetries times with the fixed backoff schedule. Rate
// limits and overloads (429/529) land here alongside plain request errors;
// all get the same bounded retry. Only a missing credential fails
// immediately and is never retried.
func (c *Client) CreateMessage(ctx context.Context, req *MessagesRequest) (*MessagesResponse, error) {
	apiKey, ok := c.creds.GetCredential()
	if !ok {
		return nil, ErrNoCredential
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.retryWait(attempt)); err != nil {
				return nil, err
			}
		}

		resp, err := c.doOnce(ctx, apiKey, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("messages call failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// doOnce performs a single HTTP round-trip
func (c *Client) doOnce(ctx context.Context, apiKey string, body []byte) (*MessagesResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, &apiError{StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	var resp MessagesResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

// sleepCtx waits for d or until ctx is canceled
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

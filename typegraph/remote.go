package typegraph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// fetchConfig holds configuration for Fetch.
type fetchConfig struct {
	client         *http.Client
	maxSize        int64
	maxRetries     int
	initialBackoff time.Duration
}

func defaultFetchConfig() fetchConfig {
	return fetchConfig{
		client:         http.DefaultClient,
		maxSize:        4 << 20, // a type database is small; cap defensively sized responses
		maxRetries:     3,
		initialBackoff: time.Second,
	}
}

// FetchOption configures Fetch.
type FetchOption func(*fetchConfig)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) FetchOption {
	return func(cfg *fetchConfig) {
		if c != nil {
			cfg.client = c
		}
	}
}

// WithMaxSize caps the accepted response body size in bytes.
func WithMaxSize(n int64) FetchOption {
	return func(cfg *fetchConfig) {
		if n > 0 {
			cfg.maxSize = n
		}
	}
}

// WithMaxRetries sets the number of retry attempts for retryable statuses.
func WithMaxRetries(n int) FetchOption {
	return func(cfg *fetchConfig) {
		if n >= 0 {
			cfg.maxRetries = n
		}
	}
}

// Fetch downloads and parses a shared YAML type database. Responses with
// status 429 or 5xx are retried with exponential backoff; the body is
// size-capped so a misbehaving server cannot exhaust memory.
func Fetch(ctx context.Context, url string, opts ...FetchOption) (*Graph, error) {
	cfg := defaultFetchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var lastErr error
	backoff := cfg.initialBackoff

	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		graph, retryable, err := fetchOnce(ctx, cfg, url)
		if err == nil {
			return graph, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, fmt.Errorf("fetch type database: %w", lastErr)
}

func fetchOnce(ctx context.Context, cfg fetchConfig, url string) (*Graph, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := cfg.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("server returned %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("server returned %s", resp.Status)
	}

	limited := io.LimitReader(resp.Body, cfg.maxSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, true, err
	}
	if int64(len(data)) > cfg.maxSize {
		return nil, false, fmt.Errorf("type database exceeds %d bytes", cfg.maxSize)
	}

	graph, err := Load(data)
	if err != nil {
		return nil, false, err
	}
	return graph, false, nil
}

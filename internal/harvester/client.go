// Package harvester fetches raw item records from the store API into the
// raw store, resuming from whatever the store already holds.
package harvester

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"steamdata/internal/config"
)

// Transport errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrEmptyResponse        = errors.New("empty response body")
)

// maxBodyBytes caps a single API response.
const maxBodyBytes = 32 << 20

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StoreClient talks to the store API with client-side rate limiting and
// config-driven retries.
type StoreClient struct {
	http        *http.Client
	limiter     *rate.Limiter
	retryPolicy config.RetryPolicy
	detailsURL  string
	params      map[string]string
	userAgent   string
	sleep       SleepFunc
}

// NewStoreClient creates a client from the harvest settings. A non-positive
// request rate disables the limiter.
func NewStoreClient(cfg config.HarvestConfig) *StoreClient {
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}

	return &StoreClient{
		http: &http.Client{
			Timeout: cfg.Retry.GetTimeout(),
		},
		limiter:     rate.NewLimiter(limit, 1),
		retryPolicy: cfg.Retry,
		detailsURL:  cfg.DetailsURL,
		params:      cfg.Params,
		userAgent:   cfg.UserAgent,
		sleep:       Sleep,
	}
}

// WithSleep replaces the backoff sleeper. Tests use it to skip real delays.
func (c *StoreClient) WithSleep(fn SleepFunc) *StoreClient {
	c.sleep = fn
	return c
}

// Details requests the detail payload for one item. The response is keyed by
// item id; each value is kept undecoded.
func (c *StoreClient) Details(ctx context.Context, id string) (map[string]json.RawMessage, error) {
	u, err := url.Parse(c.detailsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid details url: %w", err)
	}

	q := u.Query()
	for k, v := range c.params {
		q.Set(k, v)
	}

	q.Set("appids", id)
	u.RawQuery = q.Encode()

	var out map[string]json.RawMessage
	if err := c.GetJSON(ctx, u.String(), &out); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("details %s: %w", id, ErrEmptyResponse)
	}

	return out, nil
}

// GetJSON fetches rawURL and decodes the body into out.
func (c *StoreClient) GetJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyResponse
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// get performs a GET with retries. Transport errors and retryable statuses
// back off per the retry policy; any other status fails immediately.
func (c *StoreClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	attempts := max(c.retryPolicy.MaxAttempts, 1)

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retry, err := c.do(ctx, rawURL)
		if err == nil {
			return body, nil
		}

		lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, attempts, err)

		if !retry || attempt == attempts {
			break
		}

		if err := c.sleep(ctx, c.retryPolicy.GetRetryDelay(attempt)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *StoreClient) do(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, false, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable, // 503
		http.StatusGatewayTimeout,  // 504
		http.StatusTooManyRequests, // 429
		http.StatusRequestTimeout:  // 408
		return true
	}

	return false
}

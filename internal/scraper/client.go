package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Statuses worth retrying; anything else non-200 is permanent.
var retryableStatus = map[int]bool{
	http.StatusRequestEntityTooLarge: true,
	http.StatusTooManyRequests:       true,
	http.StatusInternalServerError:   true,
	http.StatusBadGateway:            true,
	http.StatusServiceUnavailable:    true,
	http.StatusGatewayTimeout:        true,
}

// Fetcher is a shared HTTP client with a per-request timeout and automatic
// retry on transient statuses. Construct once at startup and inject into
// every scraper so they share one connection pool.
type Fetcher struct {
	client     *http.Client
	maxRetries int
}

// NewFetcher builds a Fetcher. maxRetries counts retries after the first
// attempt.
func NewFetcher(timeout time.Duration, maxRetries int) *Fetcher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 3
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// GetJSON fetches url and decodes the response body into v. Connection
// errors and retryable statuses are retried with exponential backoff; a
// malformed payload is permanent since retrying cannot fix a schema mismatch.
func (f *Fetcher) GetJSON(ctx context.Context, url string, v any) error {
	op := func() (struct{}, error) {
		var zero struct{}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return zero, backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return zero, fmt.Errorf("fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if retryableStatus[resp.StatusCode] {
			return zero, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return zero, backoff.Permanent(fmt.Errorf("fetch %s: status %d", url, resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return zero, backoff.Permanent(fmt.Errorf("decode %s: %w", url, err))
		}
		return zero, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(f.maxRetries)+1),
	)
	return err
}

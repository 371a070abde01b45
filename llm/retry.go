package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// retryConfig holds retry parameters for HTTP requests.
type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// defaultRetryConfig returns standard retry settings.
func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxRetries: 5,
		baseDelay:  2 * time.Second,
		maxDelay:   60 * time.Second,
	}
}

// retryableError is returned when retries are exhausted, containing the last status and body.
type retryableError struct {
	StatusCode int
	Body       string
	Retries    int
}

func (e *retryableError) Error() string {
	if e.StatusCode == 429 {
		return fmt.Sprintf("rate limited (HTTP 429) after %d retries: %s", e.Retries, e.Body)
	}
	return fmt.Sprintf("server error (HTTP %d) after %d retries: %s", e.StatusCode, e.Retries, e.Body)
}

// retryAfterBackOff wraps an exponential backoff but lets a 429/5xx response
// override the next interval with a server-supplied Retry-After value.
type retryAfterBackOff struct {
	inner    *backoff.ExponentialBackOff
	override time.Duration
}

func newRetryAfterBackOff(baseDelay, maxDelay time.Duration) *retryAfterBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = baseDelay
	b.MaxInterval = maxDelay
	b.Multiplier = 2
	return &retryAfterBackOff{inner: b}
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.inner.NextBackOff()
	if b.override > 0 {
		if b.override > next {
			next = b.override
		}
		b.override = 0
	}
	return next
}

// doWithRetry executes an HTTP request function with exponential backoff retry
// for 429 and 5xx errors, respecting the Retry-After header when present.
// doReq performs one attempt; on success (2xx) the response is returned to the
// caller to process. Non-retryable errors (4xx other than 429) fail fast.
func doWithRetry(ctx context.Context, cfg retryConfig, doReq func() (*http.Response, error)) (*http.Response, error) {
	bo := newRetryAfterBackOff(cfg.baseDelay, cfg.maxDelay)
	attempts := 0

	return backoff.Retry(ctx, func() (*http.Response, error) {
		attempts++
		resp, err := doReq()
		if err != nil {
			if attempts > cfg.maxRetries {
				return nil, backoff.Permanent(fmt.Errorf("http request: %w", err))
			}
			return nil, err
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		case resp.StatusCode == 401 || resp.StatusCode == 403:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, backoff.Permanent(fmt.Errorf("authentication error (HTTP %d): %s", resp.StatusCode, string(body)))

		case resp.StatusCode == 429, resp.StatusCode >= 500:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if retryAfter := parseRetryAfter(resp); retryAfter > 0 && retryAfter < cfg.maxDelay {
				bo.override = retryAfter
			}
			if attempts > cfg.maxRetries {
				return nil, backoff.Permanent(&retryableError{
					StatusCode: resp.StatusCode,
					Body:       string(body),
					Retries:    cfg.maxRetries,
				})
			}
			return nil, fmt.Errorf("retryable response: HTTP %d", resp.StatusCode)

		default:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, backoff.Permanent(fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, string(body)))
		}
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(uint(cfg.maxRetries)+1))
}

// parseRetryAfter extracts the Retry-After header value as a duration.
// Supports integer seconds format. Returns 0 if not present or unparseable.
func parseRetryAfter(resp *http.Response) time.Duration {
	val := resp.Header.Get("Retry-After")
	if val == "" {
		return 0
	}
	seconds, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

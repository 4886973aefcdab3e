// Package httpx is the HTTP layer of the retrieval client: retries, backoff and
// content decoding live here so the fetch/aggregate core never sees them.
package httpx

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

// AcceptEncoding is sent on every request built by NewGet.
const AcceptEncoding = "br, gzip"

// HTTPError carries status/body for non-2xx responses.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 900))
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// RetryConfig controls retry behavior.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// If true, retry any 5xx.
	Retry5xx bool

	// Extra statuses to retry (e.g. 429, 408).
	RetryStatuses map[int]bool
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   700 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		Retry5xx:    true,
		RetryStatuses: map[int]bool{
			http.StatusTooManyRequests: true,
			http.StatusRequestTimeout:  true,
			http.StatusTooEarly:        true,
		},
	}
}

// NewGet returns a request builder for a JSON GET of url.
func NewGet(url, userAgent string) func(context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Encoding", AcceptEncoding)
		if userAgent != "" {
			req.Header.Set("User-Agent", userAgent)
		}
		return req, nil
	}
}

// DoWithRetry executes a request (built by buildReq) with retries.
// The body is always read fully and decoded according to Content-Encoding.
func DoWithRetry(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	cfg RetryConfig,
) (*http.Response, []byte, error) {
	cfg = withDefaults(cfg)

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		req, err := buildReq(ctx)
		if err != nil {
			return nil, nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			if !isRetryableNetErr(err) || attempt == cfg.MaxAttempts {
				return nil, nil, err
			}
			lastErr = err
			if err := sleepBackoff(ctx, attempt, cfg, 0); err != nil {
				return nil, nil, err
			}
			continue
		}

		body, readErr := readBody(resp)
		if readErr != nil {
			if !isRetryableNetErr(readErr) || attempt == cfg.MaxAttempts {
				return resp, body, readErr
			}
			lastErr = readErr
			if err := sleepBackoff(ctx, attempt, cfg, 0); err != nil {
				return nil, nil, err
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, body, nil
		}

		herr := &HTTPError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       body,
		}
		if !isRetryableStatus(resp.StatusCode, cfg) || attempt == cfg.MaxAttempts {
			return resp, body, herr
		}
		lastErr = herr
		if err := sleepBackoff(ctx, attempt, cfg, ParseRetryAfter(resp)); err != nil {
			return nil, nil, err
		}
	}

	if lastErr != nil {
		return nil, nil, lastErr
	}
	return nil, nil, errors.New("httpx: request failed")
}

func withDefaults(cfg RetryConfig) RetryConfig {
	def := DefaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		return def
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	if cfg.RetryStatuses == nil {
		cfg.RetryStatuses = def.RetryStatuses
	}
	return cfg
}

// readBody reads and closes the body, undoing br/gzip content encodings.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return raw, err
	}

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return raw, fmt.Errorf("brotli decode: %w", err)
		}
		return out, nil
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return raw, fmt.Errorf("gzip decode: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return raw, fmt.Errorf("gzip decode: %w", err)
		}
		return out, nil
	}
	return raw, nil
}

func isRetryableStatus(code int, cfg RetryConfig) bool {
	if cfg.RetryStatuses[code] {
		return true
	}
	return cfg.Retry5xx && code >= 500 && code <= 599
}

func sleepBackoff(ctx context.Context, attempt int, cfg RetryConfig, retryAfter time.Duration) error {
	sleep := retryAfter
	if sleep <= 0 {
		sleep = cfg.BaseDelay * time.Duration(1<<(attempt-1))
		if sleep > cfg.MaxDelay {
			sleep = cfg.MaxDelay
		}
		// jitter 0..400ms
		sleep += time.Duration(rand.IntN(400)) * time.Millisecond
	}

	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isRetryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe") || strings.Contains(msg, "eof")
}

// ParseRetryAfter parses Retry-After header (seconds or HTTP date).
// Returns 0 when header is missing/invalid.
func ParseRetryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// DoJSON runs DoWithRetry and decodes the body into out.
// Numbers are kept as json.Number so integer identifiers survive unchanged.
func DoJSON(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	out any,
	cfg RetryConfig,
) error {
	_, body, err := DoWithRetry(ctx, client, buildReq, cfg)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("json parse error: %w body=%s", err, snippet(body, 900))
	}
	return nil
}

// Package retriever fetches JSON documents for the pager, pacing requests and
// delegating retries to httpx.
package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"ifrc-sync/internal/httpx"
)

type Config struct {
	UserAgent string
	Timeout   time.Duration // per request
	// RequestsPerSecond <= 0 disables pacing.
	RequestsPerSecond float64
	Retry             httpx.RetryConfig
}

type Retriever struct {
	HTTP      *http.Client
	userAgent string
	limiter   *rate.Limiter
	retry     httpx.RetryConfig
}

func New(cfg Config) *Retriever {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	r := &Retriever{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		retry:     cfg.Retry,
	}
	if cfg.RequestsPerSecond > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return r
}

// FetchJSON downloads url and decodes it into out. key names the document in logs.
func (r *Retriever) FetchJSON(ctx context.Context, url, key string, out any) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("retriever: %s: %w", key, err)
		}
	}

	slog.Info("downloading", "key", key, "url", url)
	if err := httpx.DoJSON(ctx, r.HTTP, httpx.NewGet(url, r.userAgent), out, r.retry); err != nil {
		return fmt.Errorf("retriever: %s: %w", key, err)
	}
	return nil
}

// Package market fetches live labor market indicators and turns them into
// benchmarks for the trends core, degrading to static tables on any failure.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/blockedby/jobtrends/internal/trends"
)

// Result is what a market data source returns. Success=false or a nil Data
// means no usable reading. FetchedAt is when the reading left the upstream
// and survives caching.
type Result struct {
	Success   bool                    `json:"success"`
	Data      *trends.LaborIndicators `json:"data,omitempty"`
	Error     string                  `json:"error,omitempty"`
	FetchedAt *time.Time              `json:"fetched_at,omitempty"`
}

// Usable reports whether the result carries indicators.
func (r *Result) Usable() bool {
	return r != nil && r.Success && r.Data != nil
}

// Source provides labor market indicators.
type Source interface {
	Fetch(ctx context.Context) (*Result, error)
}

// ErrRateLimited is returned when the upstream answers 429.
var ErrRateLimited = errors.New("market data rate limited")

// maxBodyBytes caps the indicator document size.
const maxBodyBytes = 1 << 20

// HTTPSource reads an indicator document over HTTP.
type HTTPSource struct {
	url     string
	client  *http.Client
	limiter *RateLimiter
}

// NewHTTPSource creates a source for url. A nil client uses a 10s timeout
// client and a nil limiter uses DefaultRateLimiter.
func NewHTTPSource(url string, client *http.Client, limiter *RateLimiter) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if limiter == nil {
		limiter = DefaultRateLimiter()
	}
	return &HTTPSource{url: url, client: client, limiter: limiter}
}

// Fetch performs a single GET. There are no retries.
func (s *HTTPSource) Fetch(ctx context.Context) (*Result, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build market request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch market data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			s.limiter.Backoff(time.Duration(secs) * time.Second)
		}
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch market data: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read market data: %w", err)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode market data: %w", err)
	}
	fetchedAt := time.Now().UTC()
	result.FetchedAt = &fetchedAt
	return &result, nil
}

// Package httpfetch downloads roster PDFs from source and blob URLs.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultMaxBytes          = 50 << 20
	DefaultUserAgent         = "lexroster/1.0"
	DefaultRequestsPerSecond = 2.0
)

// Config holds fetcher settings.
type Config struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string

	// RequestsPerSecond throttles downloads so court sites are not hammered.
	RequestsPerSecond float64
}

// Fetcher downloads documents over HTTP(S).
type Fetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
	limiter   *rate.Limiter
}

// New creates a fetcher with defaults applied.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		maxBytes:  cfg.MaxBytes,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Fetch downloads rawURL. Every failure wraps domain.ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: unsupported URL %q", domain.ErrFetch, rawURL)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetch, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: status %d", domain.ErrFetch, rawURL, resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %s: %d bytes exceeds limit of %d", domain.ErrFetch, rawURL, resp.ContentLength, f.maxBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", domain.ErrFetch, rawURL, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s: body exceeds limit of %d bytes", domain.ErrFetch, rawURL, f.maxBytes)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s: empty body", domain.ErrFetch, rawURL)
	}
	return body, nil
}

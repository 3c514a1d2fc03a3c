// Package datasource fetches stock news and quotes from external market-data
// providers. Every provider returns raw, possibly incomplete records; defaults
// are resolved by the caller at the fetch boundary.
package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/seenimoa/stocksentiment/pkg/models"
)

// NewsProvider searches a news source for articles about a ticker.
type NewsProvider interface {
	// Name returns the short provider name used in config and logs.
	Name() string

	// SearchNews returns up to count items for ticker, in provider order.
	// It returns ErrNoNews when the provider has nothing for the ticker.
	SearchNews(ctx context.Context, ticker string, count int) ([]NewsItem, error)
}

// QuoteProvider returns the current quote for a ticker.
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
}

// NewsItem is one news record exactly as a provider returned it.
// A nil field means the provider omitted it.
type NewsItem struct {
	Title       *string
	Link        *string
	Publisher   *string
	Summary     *string
	PublishedAt *time.Time
}

// --- Sentinel errors ---

// ErrTickerNotFound is returned when a ticker cannot be resolved.
var ErrTickerNotFound = errors.New("ticker not found")

// ErrNoNews is returned when a provider has no news items for a ticker.
var ErrNoNews = errors.New("no news found")

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// --- Shared HTTP client helpers ---

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// DefaultTimeout bounds provider requests.
const DefaultTimeout = 30 * time.Second

// Option configures a provider.
type Option func(*base)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(b *base) { b.client = c }
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(b *base) {
		if ua != "" {
			b.userAgent = ua
		}
	}
}

// WithRateLimit limits requests to rps per second. Zero or negative
// disables limiting.
func WithRateLimit(rps float64) Option {
	return func(b *base) { b.limiter = newLimiter(rps) }
}

// WithBaseURL overrides the provider's scheme and host, e.g.
// "http://127.0.0.1:8080" for a test server.
func WithBaseURL(url string) Option {
	return func(b *base) {
		if url != "" {
			b.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// base holds what every provider needs to talk HTTP.
type base struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	baseURL   string
}

func newBase(defaultURL string, opts []Option) base {
	b := base{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		limiter:   newLimiter(0),
		baseURL:   defaultURL,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// doGet performs a rate-limited GET request, returning the response body.
// The caller is responsible for closing the returned ReadCloser.
func (b *base) doGet(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Set default headers.
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	// Override/add custom headers.
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, nil
}

// fetchJSON GETs url and decodes the JSON body into dest.
func (b *base) fetchJSON(ctx context.Context, url string, dest any) error {
	body, err := b.doGet(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// optString returns nil for an empty string.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

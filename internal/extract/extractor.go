// Package extract fetches news article pages and pulls their readable
// paragraph text out of arbitrary HTML.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/stocksentiment/internal/datasource"
)

// Defaults for article fetches.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBodyBytes = 5 << 20
)

// nonContentSelectors are removed before paragraph text is collected.
const nonContentSelectors = "script, style, header, footer, nav"

// boilerplate is an error string one provider serves in place of article
// content. It is removed literally; no other filtering is applied.
const boilerplate = "Oops, something went wrong"

// Extraction outcomes passed to Recorder.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// ErrEmptyURL is returned by Text for an empty URL.
var ErrEmptyURL = errors.New("empty url")

// StatusError is returned when the article page answers with a non-200 status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Warner receives human-readable advisories about failed extractions.
type Warner interface {
	Warn(msg string)
}

// Recorder observes extraction outcomes.
type Recorder interface {
	ObserveExtraction(outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveExtraction(string, time.Duration) {}

// Extractor fetches article pages over HTTP.
type Extractor struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	recorder     Recorder
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent to article hosts.
func WithUserAgent(ua string) Option {
	return func(e *Extractor) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithMaxBodyBytes caps how much of a page is read.
func WithMaxBodyBytes(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxBodyBytes = n
		}
	}
}

// WithTransport replaces the HTTP transport, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(e *Extractor) { e.client.Transport = rt }
}

// WithRecorder reports every extraction outcome to r.
func WithRecorder(r Recorder) Option {
	return func(e *Extractor) {
		if r != nil {
			e.recorder = r
		}
	}
}

// New creates an Extractor with a 10 second timeout and a browser User-Agent.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		client:       &http.Client{Timeout: DefaultTimeout},
		userAgent:    datasource.DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
		recorder:     nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the article text at url. Any failure is reported to w
// and collapses to "".
func (e *Extractor) Extract(ctx context.Context, url string, w Warner) string {
	text, err := e.Text(ctx, url)
	if err != nil {
		if w != nil {
			w.Warn(fmt.Sprintf("Could not extract text from %s: %v", url, err))
		}
		return ""
	}
	return text
}

// Text fetches url and returns its normalized paragraph text. A page without
// paragraphs yields "" and no error.
func (e *Extractor) Text(ctx context.Context, url string) (text string, err error) {
	start := time.Now()
	defer func() {
		outcome := OutcomeOK
		switch {
		case err != nil:
			outcome = OutcomeError
		case text == "":
			outcome = OutcomeEmpty
		}
		e.recorder.ObserveExtraction(outcome, time.Since(start))
	}()

	if url == "" {
		return "", ErrEmptyURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	return TextFromHTML(io.LimitReader(resp.Body, e.maxBodyBytes))
}

// TextFromHTML parses r as HTML and returns the text of its paragraphs with
// script, style, header, footer and nav elements removed, whitespace
// collapsed and the known provider boilerplate dropped.
func TextFromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(nonContentSelectors).Remove()

	paragraphs := doc.Find("p").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})

	text := collapseSpace(strings.Join(paragraphs, " "))
	if strings.Contains(text, boilerplate) {
		text = collapseSpace(strings.ReplaceAll(text, boilerplate, ""))
	}
	return text, nil
}

// collapseSpace replaces whitespace runs with a single space and trims.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

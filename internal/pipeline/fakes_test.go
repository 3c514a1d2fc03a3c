package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/seenimoa/stocksentiment/internal/datasource"
	"github.com/seenimoa/stocksentiment/internal/extract"
	"github.com/seenimoa/stocksentiment/pkg/models"
)

func strPtr(s string) *string { return &s }

type fakeProvider struct {
	name  string
	items []datasource.NewsItem
	err   error
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) SearchNews(_ context.Context, _ string, _ int) ([]datasource.NewsItem, error) {
	p.calls++
	return p.items, p.err
}

// fakeExtractor serves article bodies from a map; unknown URLs fail.
type fakeExtractor struct {
	mu    sync.Mutex
	texts map[string]string
	calls []string
}

func (f *fakeExtractor) Extract(_ context.Context, url string, w extract.Warner) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	text, ok := f.texts[url]
	if !ok {
		w.Warn("Could not extract text from " + url + ": " + errors.New("not found").Error())
	}
	return text
}

type fakeSleeper struct {
	slept []time.Duration
}

func (s *fakeSleeper) Sleep(_ context.Context, d time.Duration) {
	s.slept = append(s.slept, d)
}

type recordingReporter struct {
	mu       sync.Mutex
	statuses []string
	progress []float64
	warnings []string
}

func (r *recordingReporter) Status(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, msg)
}

func (r *recordingReporter) Progress(f float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, f)
}

func (r *recordingReporter) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

type fakeRecorder struct {
	fetches  []string
	articles []bool
	runs     int
	overall  models.SentimentLabel
}

func (r *fakeRecorder) ObserveFetch(provider, outcome string) {
	r.fetches = append(r.fetches, provider+":"+outcome)
}

func (r *fakeRecorder) ObserveArticle(extracted bool) {
	r.articles = append(r.articles, extracted)
}

func (r *fakeRecorder) ObserveAnalysis(overall models.SentimentLabel, _ int, _ time.Duration) {
	r.runs++
	r.overall = overall
}

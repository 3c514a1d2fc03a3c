// Package telemetry exports Prometheus metrics for news fetching, article
// extraction, analysis runs and the result cache.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seenimoa/stocksentiment/pkg/models"
)

const namespace = "stocksentiment"

// Metrics holds all Prometheus metrics. It implements pipeline.Recorder and
// extract.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	// Fetch metrics
	NewsFetches *prometheus.CounterVec

	// Extraction metrics
	Extractions        *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram

	// Analysis metrics
	ArticlesProcessed *prometheus.CounterVec
	Analyses          *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	ArticlesPerRun    prometheus.Histogram

	// Cache metrics
	CacheLookups *prometheus.CounterVec
}

// New creates metrics on a private registry that also carries the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{registry: reg}
	f := promauto.With(reg)
	initFetchMetrics(f, m)
	initExtractionMetrics(f, m)
	initAnalysisMetrics(f, m)
	initCacheMetrics(f, m)
	return m
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func initFetchMetrics(f promauto.Factory, m *Metrics) {
	m.NewsFetches = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "news_fetches_total",
		Help:      "News provider calls by provider and outcome (ok, empty, error)",
	}, []string{"provider", "outcome"})
}

func initExtractionMetrics(f promauto.Factory, m *Metrics) {
	m.Extractions = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractions_total",
		Help:      "Article text extractions by outcome (ok, empty, error)",
	}, []string{"outcome"})

	m.ExtractionDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "extraction_duration_seconds",
		Help:      "Time to fetch and parse one article page",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
}

func initAnalysisMetrics(f promauto.Factory, m *Metrics) {
	m.ArticlesProcessed = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_processed_total",
		Help:      "Articles processed, by whether full text was extracted",
	}, []string{"extracted"})

	m.Analyses = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Completed analysis runs by overall sentiment",
	}, []string{"overall"})

	m.AnalysisDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Wall-clock time of one analysis run",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	})

	m.ArticlesPerRun = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "articles_per_analysis",
		Help:      "Number of articles found per analysis run",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 10},
	})
}

func initCacheMetrics(f promauto.Factory, m *Metrics) {
	m.CacheLookups = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Result cache lookups by result (hit, miss, error)",
	}, []string{"result"})
}

// ObserveFetch records one news provider call.
func (m *Metrics) ObserveFetch(provider, outcome string) {
	m.NewsFetches.WithLabelValues(provider, outcome).Inc()
}

// ObserveExtraction records one article page fetch.
func (m *Metrics) ObserveExtraction(outcome string, elapsed time.Duration) {
	m.Extractions.WithLabelValues(outcome).Inc()
	m.ExtractionDuration.Observe(elapsed.Seconds())
}

// ObserveArticle records one processed article.
func (m *Metrics) ObserveArticle(extracted bool) {
	label := "false"
	if extracted {
		label = "true"
	}
	m.ArticlesProcessed.WithLabelValues(label).Inc()
}

// ObserveAnalysis records one finished analysis run.
func (m *Metrics) ObserveAnalysis(overall models.SentimentLabel, articles int, elapsed time.Duration) {
	m.Analyses.WithLabelValues(string(overall)).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
	m.ArticlesPerRun.Observe(float64(articles))
}

// ObserveCacheLookup records a result cache lookup: "hit", "miss" or "error".
func (m *Metrics) ObserveCacheLookup(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

package pipeline

import (
	"time"

	"github.com/seenimoa/stocksentiment/pkg/models"
)

// Fetch outcomes passed to Recorder.ObserveFetch.
const (
	FetchOK    = "ok"
	FetchEmpty = "empty"
	FetchError = "error"
)

// Recorder observes pipeline activity for metrics.
type Recorder interface {
	ObserveFetch(provider, outcome string)
	ObserveArticle(extracted bool)
	ObserveAnalysis(overall models.SentimentLabel, articles int, elapsed time.Duration)
}

// NopRecorder discards observations.
type NopRecorder struct{}

func (NopRecorder) ObserveFetch(string, string)                               {}
func (NopRecorder) ObserveArticle(bool)                                       {}
func (NopRecorder) ObserveAnalysis(models.SentimentLabel, int, time.Duration) {}

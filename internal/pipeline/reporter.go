// Package pipeline turns a ticker into an AnalysisResult: it fetches recent
// news, scrapes and scores every article one at a time, and aggregates the
// scores. No external failure aborts a run; each one degrades to a
// documented fallback and is surfaced through a Reporter.
package pipeline

import (
	"github.com/seenimoa/stocksentiment/internal/logging"
)

// Reporter receives progress and advisory messages for one analysis run.
// Reporting never changes what the pipeline computes.
type Reporter interface {
	// Status receives human-readable progress text.
	Status(msg string)
	// Progress receives the completed fraction of the run in [0, 1].
	Progress(fraction float64)
	// Warn receives advisories about swallowed failures.
	Warn(msg string)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Status(string)    {}
func (NopReporter) Progress(float64) {}
func (NopReporter) Warn(string)      {}

// LogReporter writes reports to a structured logger.
type LogReporter struct {
	log logging.Logger
}

// NewLogReporter creates a reporter that logs status at debug level and
// warnings at warn level.
func NewLogReporter(log logging.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Status(msg string) {
	r.log.Debug(msg)
}

func (r *LogReporter) Progress(fraction float64) {
	r.log.Debug("analysis progress", logging.Float64("fraction", fraction))
}

func (r *LogReporter) Warn(msg string) {
	r.log.Warn(msg)
}

// MultiReporter fans reports out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Status(msg string) {
	for _, r := range m {
		r.Status(msg)
	}
}

func (m MultiReporter) Progress(fraction float64) {
	for _, r := range m {
		r.Progress(fraction)
	}
}

func (m MultiReporter) Warn(msg string) {
	for _, r := range m {
		r.Warn(msg)
	}
}

func orNop(r Reporter) Reporter {
	if r == nil {
		return NopReporter{}
	}
	return r
}

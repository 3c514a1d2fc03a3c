package pipeline

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/seenimoa/stocksentiment/internal/analysis/sentiment"
	"github.com/seenimoa/stocksentiment/internal/extract"
	"github.com/seenimoa/stocksentiment/pkg/models"
)

// NoTextPlaceholder is the display text of an article whose body could not be extracted.
const NoTextPlaceholder = "Could not extract full article text."

// Ellipsis marks truncated article text.
const Ellipsis = "..."

// Defaults for ProcessorConfig.
const (
	DefaultPoliteness   = 500 * time.Millisecond
	DefaultPreviewChars = 500
)

// TextExtractor returns the article text at a URL, or "" after reporting
// the failure to w.
type TextExtractor interface {
	Extract(ctx context.Context, url string, w extract.Warner) string
}

// ProcessorConfig tunes article processing.
type ProcessorConfig struct {
	// Politeness is the pause after every article fetch.
	Politeness time.Duration
	// PreviewChars is how many characters of article text are kept for display.
	PreviewChars int
}

// Processor scores one article: its headline, then its scraped body.
type Processor struct {
	scorer    *sentiment.Scorer
	extractor TextExtractor
	sleeper   Sleeper
	cfg       ProcessorConfig
	rec       Recorder
}

// NewProcessor creates a processor. A nil sleeper sleeps on the wall clock;
// a nil recorder discards observations.
func NewProcessor(scorer *sentiment.Scorer, ex TextExtractor, sleeper Sleeper, rec Recorder, cfg ProcessorConfig) *Processor {
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	if rec == nil {
		rec = NopRecorder{}
	}
	if cfg.PreviewChars <= 0 {
		cfg.PreviewChars = DefaultPreviewChars
	}
	if cfg.Politeness < 0 {
		cfg.Politeness = 0
	}
	return &Processor{scorer: scorer, extractor: ex, sleeper: sleeper, cfg: cfg, rec: rec}
}

// Processed pairs a display record with the untruncated article text used
// for the combined score. The raw text is not part of any result.
type Processed struct {
	Article models.ProcessedArticle
	raw     string
}

// RawText returns the untruncated extracted text, or "" when extraction failed.
func (p Processed) RawText() string { return p.raw }

// Process scores article, which is number position of total in the run.
func (p *Processor) Process(ctx context.Context, article models.NewsArticle, position, total int, rep Reporter) Processed {
	rep = orNop(rep)
	rep.Status(fmt.Sprintf("Processing article %d of %d...", position, total))

	headline := p.scorer.Score(article.HeadlineText())

	var raw string
	if article.Link != "" {
		rep.Status(fmt.Sprintf("Extracting text from article %d...", position))
		raw = p.extractor.Extract(ctx, article.Link, rep)
		p.sleeper.Sleep(ctx, p.cfg.Politeness)
	}

	out := models.ProcessedArticle{
		NewsArticle: article,
		Headline:    headline,
	}
	if raw != "" {
		out.FullText = p.scorer.Score(raw)
		out.ArticleText = truncate(raw, p.cfg.PreviewChars)
		out.Extracted = true
	} else {
		out.FullText = headline
		out.ArticleText = NoTextPlaceholder
	}
	p.rec.ObserveArticle(out.Extracted)

	return Processed{Article: out, raw: raw}
}

// truncate keeps the first n characters of s and appends Ellipsis when
// anything was cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + Ellipsis
}

package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seenimoa/stocksentiment/internal/analysis/sentiment"
	"github.com/seenimoa/stocksentiment/pkg/models"
)

func newTestProcessor(ex TextExtractor, sl Sleeper, rec Recorder) *Processor {
	return NewProcessor(sentiment.NewScorer(nil), ex, sl, rec, ProcessorConfig{
		Politeness:   DefaultPoliteness,
		PreviewChars: DefaultPreviewChars,
	})
}

func TestProcessNoLink(t *testing.T) {
	ex := &fakeExtractor{}
	sl := &fakeSleeper{}
	rep := &recordingReporter{}
	p := newTestProcessor(ex, sl, nil)

	article := models.NewsArticle{Title: "Apple faces weak demand", Publisher: "Unknown"}
	got := p.Process(context.Background(), article, 2, 3, rep)

	assert.Empty(t, ex.calls, "no network call without a link")
	assert.Empty(t, sl.slept)
	assert.Equal(t, []string{"Processing article 2 of 3..."}, rep.statuses)

	assert.Equal(t, got.Article.Headline, got.Article.FullText)
	assert.Equal(t, models.SentimentNegative, got.Article.Headline.Label)
	assert.Equal(t, NoTextPlaceholder, got.Article.ArticleText)
	assert.False(t, got.Article.Extracted)
	assert.Equal(t, "", got.RawText())
	assert.Equal(t, article, got.Article.NewsArticle)
}

func TestProcessExtracted(t *testing.T) {
	ex := &fakeExtractor{texts: map[string]string{
		"https://example.com/a": "Apple reported strong earnings.",
	}}
	sl := &fakeSleeper{}
	rep := &recordingReporter{}
	rec := &fakeRecorder{}
	p := newTestProcessor(ex, sl, rec)

	article := models.NewsArticle{Title: "Apple results", Link: "https://example.com/a"}
	got := p.Process(context.Background(), article, 1, 1, rep)

	assert.Equal(t, []string{"https://example.com/a"}, ex.calls)
	assert.Equal(t, []string{
		"Processing article 1 of 1...",
		"Extracting text from article 1...",
	}, rep.statuses)
	assert.Equal(t, []time.Duration{DefaultPoliteness}, sl.slept)

	assert.True(t, got.Article.Extracted)
	assert.Equal(t, "Apple reported strong earnings.", got.Article.ArticleText)
	assert.Equal(t, "Apple reported strong earnings.", got.RawText())
	assert.InDelta(t, 0.433, got.Article.FullText.Polarity, 1e-9)
	assert.Equal(t, models.SentimentPositive, got.Article.FullText.Label)
	assert.Equal(t, models.SentimentNeutral, got.Article.Headline.Label)
	assert.Equal(t, []bool{true}, rec.articles)
}

func TestProcessExtractionFails(t *testing.T) {
	ex := &fakeExtractor{}
	sl := &fakeSleeper{}
	rep := &recordingReporter{}
	p := newTestProcessor(ex, sl, nil)

	article := models.NewsArticle{Title: "Great quarter", Link: "https://example.com/missing"}
	got := p.Process(context.Background(), article, 1, 1, rep)

	assert.Len(t, rep.warnings, 1)
	assert.Contains(t, rep.warnings[0], "https://example.com/missing")
	assert.Len(t, sl.slept, 1, "politeness delay applies after failed fetches too")
	assert.Equal(t, got.Article.Headline, got.Article.FullText)
	assert.Equal(t, NoTextPlaceholder, got.Article.ArticleText)
	assert.False(t, got.Article.Extracted)
}

func TestProcessTruncatesDisplayText(t *testing.T) {
	long := strings.Repeat("é", 600)
	ex := &fakeExtractor{texts: map[string]string{"u": long}}
	p := newTestProcessor(ex, &fakeSleeper{}, nil)

	got := p.Process(context.Background(), models.NewsArticle{Link: "u"}, 1, 1, nil)

	assert.Equal(t, strings.Repeat("é", 500)+Ellipsis, got.Article.ArticleText)
	assert.Equal(t, long, got.RawText())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"", 5, ""},
		{"abc", 5, "abc"},
		{"abcde", 5, "abcde"},
		{"abcdef", 5, "abcde..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.n))
	}
}

func TestNewProcessorDefaults(t *testing.T) {
	p := NewProcessor(sentiment.NewScorer(nil), &fakeExtractor{}, nil, nil, ProcessorConfig{Politeness: -time.Second})
	assert.Equal(t, DefaultPreviewChars, p.cfg.PreviewChars)
	assert.Equal(t, time.Duration(0), p.cfg.Politeness)
	assert.IsType(t, TimerSleeper{}, p.sleeper)
}

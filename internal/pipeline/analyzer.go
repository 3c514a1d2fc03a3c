package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/seenimoa/stocksentiment/internal/analysis/sentiment"
	"github.com/seenimoa/stocksentiment/pkg/models"
)

// Analyzer runs the fetch, process and aggregate steps for a ticker.
// It holds no per-run state and may be shared.
type Analyzer struct {
	fetcher   *Fetcher
	processor *Processor
	scorer    *sentiment.Scorer
	rec       Recorder

	now   func() time.Time
	newID func() string
}

// NewAnalyzer wires an analyzer. A nil recorder discards observations.
func NewAnalyzer(f *Fetcher, p *Processor, s *sentiment.Scorer, rec Recorder) *Analyzer {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &Analyzer{
		fetcher:   f,
		processor: p,
		scorer:    s,
		rec:       rec,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Analyze fetches up to count articles for ticker and scores them strictly
// in fetch order. It never fails: a run without news yields an empty result
// with Neutral overall sentiment and no combined score. Canceling ctx makes
// the remaining fetches fall back to headline scores.
func (a *Analyzer) Analyze(ctx context.Context, ticker string, count int, rep Reporter) *models.AnalysisResult {
	rep = orNop(rep)
	start := a.now()

	res := &models.AnalysisResult{
		ID:             a.newID(),
		Ticker:         ticker,
		RequestedCount: count,
		Articles:       []models.ProcessedArticle{},
		AnalyzedAt:     start,
	}

	articles := a.fetcher.Fetch(ctx, ticker, count, rep)

	var (
		sumP, sumS float64
		texts      []string
	)
	for i, article := range articles {
		p := a.processor.Process(ctx, article, i+1, len(articles), rep)
		res.Articles = append(res.Articles, p.Article)
		sumP += p.Article.FullText.Polarity
		sumS += p.Article.FullText.Subjectivity
		if raw := p.RawText(); raw != "" {
			texts = append(texts, raw)
		}
		rep.Progress(float64(i+1) / float64(len(articles)))
	}

	if n := len(res.Articles); n > 0 {
		res.AvgPolarity = sumP / float64(n)
		res.AvgSubjectivity = sumS / float64(n)
	}
	res.Overall = sentiment.Classify(res.AvgPolarity)
	res.OverallEmoji = res.Overall.Emoji()
	res.Combined = a.scorer.Combined(texts)
	res.Duration = a.now().Sub(start)

	if len(articles) == 0 {
		rep.Progress(1.0)
	}
	a.rec.ObserveAnalysis(res.Overall, len(res.Articles), res.Duration)
	return res
}

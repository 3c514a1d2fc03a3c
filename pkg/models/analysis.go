package models

import "time"

// SentimentLabel is the coarse classification of a polarity value.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// Emoji returns the display glyph for the label.
func (l SentimentLabel) Emoji() string {
	switch l {
	case SentimentPositive:
		return "😊"
	case SentimentNegative:
		return "😠"
	default:
		return "😐"
	}
}

// SentimentScore is a scored piece of text.
// Polarity is in [-1, 1], subjectivity in [0, 1].
type SentimentScore struct {
	Polarity     float64        `json:"polarity"`
	Subjectivity float64        `json:"subjectivity"`
	Label        SentimentLabel `json:"label"`
	Emoji        string         `json:"emoji"`
}

// ProcessedArticle is a NewsArticle with its headline and full-text scores.
// FullText equals Headline when no article text could be extracted.
type ProcessedArticle struct {
	NewsArticle
	Headline    SentimentScore `json:"headline_sentiment"`
	FullText    SentimentScore `json:"full_text_sentiment"`
	ArticleText string         `json:"article_text"`
	Extracted   bool           `json:"extracted"`
}

// AnalysisResult is the output of one news sentiment run for a ticker.
type AnalysisResult struct {
	ID              string             `json:"id"`
	Ticker          string             `json:"ticker"`
	RequestedCount  int                `json:"requested_count"`
	Articles        []ProcessedArticle `json:"articles"`
	AvgPolarity     float64            `json:"avg_polarity"`
	AvgSubjectivity float64            `json:"avg_subjectivity"`
	Overall         SentimentLabel     `json:"overall"`
	OverallEmoji    string             `json:"overall_emoji"`
	Combined        *SentimentScore    `json:"combined,omitempty"` // nil when no article text was extracted
	AnalyzedAt      time.Time          `json:"analyzed_at"`
	Duration        time.Duration      `json:"duration"`
}

// Empty reports whether the run found no articles.
func (r *AnalysisResult) Empty() bool {
	return r == nil || len(r.Articles) == 0
}

// ExtractedCount returns how many articles yielded full text.
func (r *AnalysisResult) ExtractedCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, a := range r.Articles {
		if a.Extracted {
			n++
		}
	}
	return n
}

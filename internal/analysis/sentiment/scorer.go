package sentiment

import (
	"strings"

	"github.com/seenimoa/stocksentiment/pkg/models"
)

// Classification thresholds. Polarity strictly above PositiveThreshold is
// Positive, strictly below NegativeThreshold is Negative.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// Scorer maps text to a SentimentScore using a Model.
type Scorer struct {
	model Model
}

// NewScorer creates a scorer backed by m. A nil model selects PatternModel.
func NewScorer(m Model) *Scorer {
	if m == nil {
		m = NewPatternModel()
	}
	return &Scorer{model: m}
}

// Score scores text. Empty or whitespace-only text is Neutral with zero
// polarity and subjectivity and never reaches the model.
func (s *Scorer) Score(text string) models.SentimentScore {
	if strings.TrimSpace(text) == "" {
		return NewScore(0, 0)
	}
	a := s.model.Analyze(text)
	return NewScore(a.Polarity, a.Subjectivity)
}

// Combined scores the space-joined concatenation of texts.
// It returns nil when the concatenation is empty.
func (s *Scorer) Combined(texts []string) *models.SentimentScore {
	joined := strings.Join(texts, " ")
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	score := s.Score(joined)
	return &score
}

// Classify applies the threshold rule to a polarity value.
func Classify(polarity float64) models.SentimentLabel {
	switch {
	case polarity > PositiveThreshold:
		return models.SentimentPositive
	case polarity < NegativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// NewScore builds a SentimentScore with its label and emoji derived from polarity.
func NewScore(polarity, subjectivity float64) models.SentimentScore {
	label := Classify(polarity)
	return models.SentimentScore{
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Label:        label,
		Emoji:        label.Emoji(),
	}
}

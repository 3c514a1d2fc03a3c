// Package sentiment scores free text for polarity and subjectivity and
// classifies the result as Positive, Negative or Neutral.
package sentiment

// Analysis is the raw output of a sentiment model.
// Polarity is in [-1, 1], subjectivity in [0, 1].
type Analysis struct {
	Polarity     float64
	Subjectivity float64
}

// Model turns text into an Analysis. Implementations must be safe for
// concurrent use and deterministic for a given input.
type Model interface {
	Analyze(text string) Analysis
}

// ModelFunc adapts a plain function to the Model interface.
type ModelFunc func(text string) Analysis

// Analyze calls f(text).
func (f ModelFunc) Analyze(text string) Analysis {
	return f(text)
}

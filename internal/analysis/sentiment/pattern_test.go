package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternModelAnalyze(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		polarity     float64
		subjectivity float64
	}{
		{"no opinion words", "The company is located in Cupertino", 0, 0},
		{"single word", "Apple reported strong earnings.", 0.433, 0.733},
		{"intensifier", "very good", 0.91, 0.78},
		{"negation", "not good", -0.35, 0.6},
		{"contraction negation", "It isn't good", -0.35, 0.6},
		{"curly apostrophe", "It isn’t good", -0.35, 0.6},
		{"negation through intensifier", "not a very good result", -0.455, 0.78},
		{"negation out of window", "not what we thought would be good", 0.7, 0.6},
		{"sentence break resets negation", "Not. Good", 0.7, 0.6},
		{"clamped", "extremely excellent", 1.0, 1.0},
		{"mixed cancels", "good and bad", 0, 0.6335},
		{"market vocabulary", "Shares plunge after fraud lawsuit", -0.6, 0.5333},
		{"case insensitive", "GREAT quarter", 0.8, 0.75},
	}

	m := NewPatternModel()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Analyze(tt.text)
			assert.InDelta(t, tt.polarity, got.Polarity, 1e-3, "polarity")
			assert.InDelta(t, tt.subjectivity, got.Subjectivity, 1e-3, "subjectivity")
		})
	}
}

func TestPatternModelRanges(t *testing.T) {
	m := NewPatternModel()
	texts := []string{
		"",
		"terrible awful worst crash",
		"extremely extremely excellent wonderful",
		"never not no bad",
		"!!!???...",
	}
	for _, text := range texts {
		a := m.Analyze(text)
		assert.GreaterOrEqual(t, a.Polarity, -1.0, text)
		assert.LessOrEqual(t, a.Polarity, 1.0, text)
		assert.GreaterOrEqual(t, a.Subjectivity, 0.0, text)
		assert.LessOrEqual(t, a.Subjectivity, 1.0, text)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"apple's", "shares", "rose", ".", "analysts", "don't", "agree", "."},
		tokenize("Apple's shares rose... Analysts don't agree!"))
	assert.Empty(t, tokenize("   "))
}

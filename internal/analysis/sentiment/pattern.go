package sentiment

import (
	"strings"
	"unicode"
)

const (
	// negationWindow is how many tokens after a negation it still applies.
	negationWindow = 3
	// negationFactor is applied to polarity of negated words.
	negationFactor = -0.5
)

// PatternModel is a deterministic lexicon model. Each opinion word
// contributes its polarity and subjectivity, scaled by a directly preceding
// intensifier and flipped by a negation up to three tokens earlier in the
// same sentence. The text scores the mean of its opinion words; text without
// any scores (0, 0).
type PatternModel struct{}

// NewPatternModel returns the default lexicon model.
func NewPatternModel() PatternModel {
	return PatternModel{}
}

// Analyze implements Model.
func (PatternModel) Analyze(text string) Analysis {
	var (
		sumP, sumS float64
		matched    int
		negAt      = -1
		intensity  = 1.0
	)

	for i, tok := range tokenize(text) {
		if tok == sentenceBreak {
			negAt, intensity = -1, 1.0
			continue
		}
		if isNegation(tok) {
			negAt, intensity = i, 1.0
			continue
		}
		if m, ok := intensifiers[tok]; ok {
			intensity *= m
			continue
		}
		if e, ok := lexicon[tok]; ok {
			p := e.polarity * intensity
			if negAt >= 0 && i-negAt <= negationWindow {
				p *= negationFactor
			}
			sumP += clamp(p, -1, 1)
			sumS += clamp(e.subjectivity*intensity, 0, 1)
			matched++
		}
		intensity = 1.0
	}

	if matched == 0 {
		return Analysis{}
	}
	return Analysis{
		Polarity:     clamp(sumP/float64(matched), -1, 1),
		Subjectivity: clamp(sumS/float64(matched), 0, 1),
	}
}

// sentenceBreak is the token emitted for sentence punctuation.
const sentenceBreak = "."

// tokenize lowercases text and splits it into words. Runs of sentence
// punctuation become a single sentenceBreak token.
func tokenize(text string) []string {
	var (
		tokens []string
		word   strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '\'', r == '’', r == '-':
			if r == '’' {
				r = '\''
			}
			word.WriteRune(r)
		case r == '.', r == '!', r == '?', r == ';', r == ':':
			flush()
			if n := len(tokens); n == 0 || tokens[n-1] != sentenceBreak {
				tokens = append(tokens, sentenceBreak)
			}
		default:
			flush()
		}
	}
	flush()
	return tokens
}

func isNegation(tok string) bool {
	return negations[tok] || strings.HasSuffix(tok, "n't")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package utils

import (
	"strings"
	"unicode"
)

// MaxTickerLen bounds user-supplied ticker symbols.
const MaxTickerLen = 12

// NormalizeTicker normalizes a user-input ticker: whitespace trimmed,
// uppercased, and a leading "$" (common in chat) removed.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))
	ticker = strings.TrimPrefix(ticker, "$")
	return ticker
}

// ValidTicker reports whether a normalized ticker looks like a symbol that a
// market-data provider can resolve: letters, digits, '.', '-', '^' and '='.
func ValidTicker(ticker string) bool {
	if ticker == "" || len(ticker) > MaxTickerLen {
		return false
	}
	for _, r := range ticker {
		switch {
		case unicode.IsUpper(r), unicode.IsDigit(r):
		case r == '.', r == '-', r == '^', r == '=':
		default:
			return false
		}
	}
	return true
}

// Package utils provides ticker and number formatting helpers used by the
// CLI and the dashboard.
package utils

import (
	"fmt"
	"strings"
)

// NotAvailable is shown for values a provider did not return.
const NotAvailable = "N/A"

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatPrice formats a price in dollars with thousands separators.
// Zero is treated as unknown.
func FormatPrice(price float64) string {
	if price == 0 {
		return NotAvailable
	}
	return "$" + groupThousands(fmt.Sprintf("%.2f", price))
}

// FormatRange formats a low-high price range, e.g. "$120.50 - $199.62".
func FormatRange(low, high float64) string {
	if low == 0 || high == 0 {
		return NotAvailable
	}
	return FormatPrice(low) + " - " + FormatPrice(high)
}

// FormatMarketCap formats a market capitalisation compactly.
// e.g., 2.5e12 → "$2.50T", 3.1e9 → "$3.10B", 4.2e6 → "$4.20M", 950000 → "$950,000"
func FormatMarketCap(cap float64) string {
	switch {
	case cap <= 0:
		return NotAvailable
	case cap >= 1e12:
		return fmt.Sprintf("$%.2fT", cap/1e12)
	case cap >= 1e9:
		return fmt.Sprintf("$%.2fB", cap/1e9)
	case cap >= 1e6:
		return fmt.Sprintf("$%.2fM", cap/1e6)
	default:
		return "$" + groupThousands(fmt.Sprintf("%.0f", cap))
	}
}

// FormatVolume formats a share volume with thousands separators.
func FormatVolume(volume int64) string {
	if volume <= 0 {
		return NotAvailable
	}
	return groupThousands(fmt.Sprintf("%d", volume))
}

// FormatScore formats a polarity or subjectivity value to two decimals.
func FormatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// groupThousands inserts commas into the integer part of a formatted number.
func groupThousands(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}

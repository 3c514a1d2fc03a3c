// Package models defines the core data structures shared by the news
// sentiment pipeline, the API server and the CLI.
package models

import "time"

// Quote is the stock information shown next to a news analysis.
type Quote struct {
	Ticker        string    `json:"ticker"`
	Name          string    `json:"name"`
	Exchange      string    `json:"exchange,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	LastPrice     float64   `json:"last_price"`
	PrevClose     float64   `json:"prev_close"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_pct"`
	Volume        int64     `json:"volume"`
	WeekHigh52    float64   `json:"week_high_52"`
	WeekLow52     float64   `json:"week_low_52"`
	MarketCap     float64   `json:"market_cap"`
	PE            float64   `json:"pe,omitempty"`
	DividendYield float64   `json:"dividend_yield,omitempty"` // percent
	Timestamp     time.Time `json:"timestamp"`
}

// HasPrice reports whether both the last price and previous close are known,
// which is required to compute a day change.
func (q *Quote) HasPrice() bool {
	return q != nil && q.LastPrice > 0 && q.PrevClose > 0
}

// HasRange reports whether the 52-week range is populated.
func (q *Quote) HasRange() bool {
	return q != nil && q.WeekLow52 > 0 && q.WeekHigh52 > 0
}

package datasource

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/seenimoa/stocksentiment/pkg/models"
)

// YahooBaseURL is the Yahoo Finance query host.
const YahooBaseURL = "https://query1.finance.yahoo.com"

const (
	yfSearchPath = "/v1/finance/search"
	yfQuotePath  = "/v7/finance/quote"
)

// YFinance searches Yahoo Finance for news and quotes. Both endpoints share
// one rate limiter.
type YFinance struct {
	base
}

// NewYFinance creates a Yahoo Finance source.
func NewYFinance(opts ...Option) *YFinance {
	return &YFinance{base: newBase(YahooBaseURL, opts)}
}

// Name returns the provider name.
func (y *YFinance) Name() string { return "yahoo" }

// --- Yahoo Finance API types ---

// yfSearchResponse wraps the v1 search API response.
type yfSearchResponse struct {
	News []yfSearchNews `json:"news"`
}

type yfSearchNews struct {
	UUID                string  `json:"uuid"`
	Title               *string `json:"title"`
	Publisher           *string `json:"publisher"`
	Link                *string `json:"link"`
	Summary             *string `json:"summary"`
	ProviderPublishTime *int64  `json:"providerPublishTime"`
}

type yfQuoteResponse struct {
	QuoteResponse struct {
		Result []yfQuoteResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"quoteResponse"`
}

type yfQuoteResult struct {
	Symbol                     string  `json:"symbol"`
	ShortName                  string  `json:"shortName"`
	LongName                   string  `json:"longName"`
	FullExchangeName           string  `json:"fullExchangeName"`
	Currency                   string  `json:"currency"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketChange        float64 `json:"regularMarketChange"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
	RegularMarketVolume        int64   `json:"regularMarketVolume"`
	MarketCap                  float64 `json:"marketCap"`
	FiftyTwoWeekHigh           float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            float64 `json:"fiftyTwoWeekLow"`
	TrailingPE                 float64 `json:"trailingPE"`
	DividendYield              float64 `json:"dividendYield"`
	RegularMarketTime          int64   `json:"regularMarketTime"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// --- Public methods ---

// SearchNews returns up to count news items for ticker from the search API.
func (y *YFinance) SearchNews(ctx context.Context, ticker string, count int) ([]NewsItem, error) {
	u := fmt.Sprintf("%s%s?q=%s&quotesCount=0&newsCount=%d", y.baseURL, yfSearchPath, url.QueryEscape(ticker), count)

	var resp yfSearchResponse
	if err := y.fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("yfinance news %s: %w", ticker, err)
	}
	if len(resp.News) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoNews, ticker)
	}

	items := make([]NewsItem, 0, len(resp.News))
	for _, n := range resp.News {
		item := NewsItem{
			Title:     n.Title,
			Link:      n.Link,
			Publisher: n.Publisher,
			Summary:   n.Summary,
		}
		if n.ProviderPublishTime != nil {
			t := time.Unix(*n.ProviderPublishTime, 0)
			item.PublishedAt = &t
		}
		items = append(items, item)
	}
	if len(items) > count {
		items = items[:count]
	}
	return items, nil
}

// GetQuote returns the current quote for ticker from the v7 quote API.
func (y *YFinance) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	u := fmt.Sprintf("%s%s?symbols=%s", y.baseURL, yfQuotePath, url.QueryEscape(ticker))

	var resp yfQuoteResponse
	if err := y.fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("yfinance quote %s: %w", ticker, err)
	}

	if resp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	r := resp.QuoteResponse.Result[0]
	quote := &models.Quote{
		Ticker:        r.Symbol,
		Name:          coalesce(r.LongName, r.ShortName, r.Symbol),
		Exchange:      r.FullExchangeName,
		Currency:      r.Currency,
		LastPrice:     r.RegularMarketPrice,
		PrevClose:     r.RegularMarketPreviousClose,
		Change:        r.RegularMarketChange,
		ChangePct:     r.RegularMarketChangePercent,
		Volume:        r.RegularMarketVolume,
		WeekHigh52:    r.FiftyTwoWeekHigh,
		WeekLow52:     r.FiftyTwoWeekLow,
		MarketCap:     r.MarketCap,
		PE:            r.TrailingPE,
		DividendYield: r.DividendYield,
	}
	if r.RegularMarketTime > 0 {
		quote.Timestamp = time.Unix(r.RegularMarketTime, 0)
	}
	// Older payloads omit the change fields.
	if quote.Change == 0 && quote.HasPrice() {
		quote.Change = quote.LastPrice - quote.PrevClose
		quote.ChangePct = quote.Change / quote.PrevClose * 100
	}

	return quote, nil
}

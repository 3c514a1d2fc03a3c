package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchFixture = `{
  "news": [
    {
      "uuid": "a1",
      "title": "Apple beats estimates",
      "publisher": "Reuters",
      "link": "https://example.com/a1",
      "providerPublishTime": 1700000000
    },
    {
      "uuid": "a2",
      "title": "Apple supplier update"
    },
    {
      "uuid": "a3",
      "title": "Third story",
      "link": "https://example.com/a3"
    }
  ]
}`

const quoteFixture = `{
  "quoteResponse": {
    "result": [{
      "symbol": "AAPL",
      "shortName": "Apple Inc.",
      "longName": "Apple Inc.",
      "fullExchangeName": "NasdaqGS",
      "currency": "USD",
      "regularMarketPrice": 190.5,
      "regularMarketChange": 2.5,
      "regularMarketChangePercent": 1.33,
      "regularMarketPreviousClose": 188.0,
      "regularMarketVolume": 51234567,
      "marketCap": 2950000000000,
      "fiftyTwoWeekHigh": 199.62,
      "fiftyTwoWeekLow": 164.08,
      "trailingPE": 29.4,
      "regularMarketTime": 1700000000
    }],
    "error": null
  }
}`

func newYahooServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		switch r.URL.Path {
		case yfSearchPath:
			if r.URL.Query().Get("q") == "NONE" {
				_, _ = w.Write([]byte(`{"news":[]}`))
				return
			}
			_, _ = w.Write([]byte(searchFixture))
		case yfQuotePath:
			if r.URL.Query().Get("symbols") == "NONE" {
				_, _ = w.Write([]byte(`{"quoteResponse":{"result":[],"error":null}}`))
				return
			}
			_, _ = w.Write([]byte(quoteFixture))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func TestYFinanceSearchNews(t *testing.T) {
	srv, queries := newYahooServer(t)
	y := NewYFinance(WithBaseURL(srv.URL))

	items, err := y.SearchNews(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "q=AAPL&quotesCount=0&newsCount=2", (*queries)[0])

	first := items[0]
	require.NotNil(t, first.Title)
	assert.Equal(t, "Apple beats estimates", *first.Title)
	require.NotNil(t, first.Publisher)
	assert.Equal(t, "Reuters", *first.Publisher)
	require.NotNil(t, first.PublishedAt)
	assert.True(t, first.PublishedAt.Equal(time.Unix(1700000000, 0)))
	assert.Nil(t, first.Summary)

	second := items[1]
	assert.Nil(t, second.Link)
	assert.Nil(t, second.Publisher)
	assert.Nil(t, second.PublishedAt)
}

func TestYFinanceSearchNewsEmpty(t *testing.T) {
	srv, _ := newYahooServer(t)
	y := NewYFinance(WithBaseURL(srv.URL))

	items, err := y.SearchNews(context.Background(), "NONE", 5)
	assert.Nil(t, items)
	assert.True(t, errors.Is(err, ErrNoNews))
}

func TestYFinanceGetQuote(t *testing.T) {
	srv, _ := newYahooServer(t)
	y := NewYFinance(WithBaseURL(srv.URL))

	q, err := y.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Ticker)
	assert.Equal(t, "Apple Inc.", q.Name)
	assert.Equal(t, "NasdaqGS", q.Exchange)
	assert.Equal(t, 190.5, q.LastPrice)
	assert.Equal(t, 188.0, q.PrevClose)
	assert.Equal(t, int64(51234567), q.Volume)
	assert.Equal(t, 2.95e12, q.MarketCap)
	assert.True(t, q.HasRange())
	assert.False(t, q.Timestamp.IsZero())
}

func TestYFinanceGetQuoteNotFound(t *testing.T) {
	srv, _ := newYahooServer(t)
	y := NewYFinance(WithBaseURL(srv.URL))

	_, err := y.GetQuote(context.Background(), "NONE")
	assert.True(t, errors.Is(err, ErrTickerNotFound))
}

func TestYFinanceDerivesChange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"X","regularMarketPrice":110,"regularMarketPreviousClose":100}]}}`))
	}))
	defer srv.Close()

	q, err := NewYFinance(WithBaseURL(srv.URL)).GetQuote(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "X", q.Name)
	assert.InDelta(t, 10.0, q.Change, 1e-9)
	assert.InDelta(t, 10.0, q.ChangePct, 1e-9)
}

func TestYFinanceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewYFinance(WithBaseURL(srv.URL)).SearchNews(context.Background(), "AAPL", 3)
	var httpErr *ErrHTTP
	assert.True(t, errors.As(err, &httpErr))
	assert.False(t, errors.Is(err, ErrNoNews))
}

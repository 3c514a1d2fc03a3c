package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Yahoo! Finance: AAPL News</title>
    <item>
      <title>Apple unveils new product line</title>
      <link>https://example.com/rss1</link>
      <description>&lt;p&gt;Shares &lt;b&gt;rose&lt;/b&gt; in early trading.&lt;/p&gt;</description>
      <pubDate>Tue, 14 Nov 2023 22:13:20 +0000</pubDate>
    </item>
    <item>
      <title>Second item</title>
    </item>
    <item>
      <title>Third item</title>
      <link>https://example.com/rss3</link>
    </item>
  </channel>
</rss>`

func TestYahooRSSSearchNews(t *testing.T) {
	var gotPath, gotTicker string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTicker = r.URL.Query().Get("s")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	p := NewYahooRSS(WithBaseURL(srv.URL))
	assert.Equal(t, "rss", p.Name())

	items, err := p.SearchNews(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	assert.Equal(t, rssHeadlinePath, gotPath)
	assert.Equal(t, "AAPL", gotTicker)
	require.Len(t, items, 2)

	first := items[0]
	require.NotNil(t, first.Title)
	assert.Equal(t, "Apple unveils new product line", *first.Title)
	require.NotNil(t, first.Summary)
	assert.Equal(t, "Shares rose in early trading.", *first.Summary)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, 2023, first.PublishedAt.UTC().Year())
	assert.Nil(t, first.Publisher)

	second := items[1]
	assert.Nil(t, second.Link)
	assert.Nil(t, second.Summary)
	assert.Nil(t, second.PublishedAt)
}

func TestYahooRSSEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>none</title></channel></rss>`))
	}))
	defer srv.Close()

	_, err := NewYahooRSS(WithBaseURL(srv.URL)).SearchNews(context.Background(), "ZZZZ", 5)
	assert.True(t, errors.Is(err, ErrNoNews))
}

func TestYahooRSSMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`this is not a feed`))
	}))
	defer srv.Close()

	_, err := NewYahooRSS(WithBaseURL(srv.URL)).SearchNews(context.Background(), "AAPL", 5)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoNews))
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"  <div> padded </div> ", "padded"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanHTML(tt.in))
	}
}

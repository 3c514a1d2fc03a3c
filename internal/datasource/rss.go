package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// YahooRSSBaseURL is the Yahoo Finance feed host.
const YahooRSSBaseURL = "https://feeds.finance.yahoo.com"

const rssHeadlinePath = "/rss/2.0/headline"

// YahooRSS reads the Yahoo Finance per-ticker headline RSS feed.
type YahooRSS struct {
	base
	parser *gofeed.Parser
}

// NewYahooRSS creates an RSS news source.
func NewYahooRSS(opts ...Option) *YahooRSS {
	return &YahooRSS{
		base:   newBase(YahooRSSBaseURL, opts),
		parser: gofeed.NewParser(),
	}
}

// Name returns the provider name.
func (r *YahooRSS) Name() string { return "rss" }

// SearchNews returns up to count feed items for ticker.
func (r *YahooRSS) SearchNews(ctx context.Context, ticker string, count int) ([]NewsItem, error) {
	u := fmt.Sprintf("%s%s?s=%s&region=US&lang=en-US", r.baseURL, rssHeadlinePath, url.QueryEscape(ticker))

	body, err := r.doGet(ctx, u, map[string]string{
		"Accept": "application/rss+xml, application/xml, text/xml",
	})
	if err != nil {
		return nil, fmt.Errorf("rss news %s: %w", ticker, err)
	}
	defer body.Close()

	feed, err := r.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", ticker, err)
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoNews, ticker)
	}

	items := make([]NewsItem, 0, min(len(feed.Items), count))
	for _, it := range feed.Items {
		if len(items) == count {
			break
		}
		item := NewsItem{
			Title:       optString(strings.TrimSpace(it.Title)),
			Link:        optString(strings.TrimSpace(it.Link)),
			Summary:     optString(cleanHTML(it.Description)),
			PublishedAt: it.PublishedParsed,
		}
		if len(it.Authors) > 0 && it.Authors[0] != nil {
			item.Publisher = optString(it.Authors[0].Name)
		}
		items = append(items, item)
	}

	return items, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

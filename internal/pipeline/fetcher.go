package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/seenimoa/stocksentiment/internal/datasource"
	"github.com/seenimoa/stocksentiment/pkg/models"
)

// Fetcher retrieves news for a ticker from an ordered list of providers.
type Fetcher struct {
	providers []datasource.NewsProvider
	rec       Recorder
}

// NewFetcher creates a fetcher that tries providers in the given order.
func NewFetcher(rec Recorder, providers ...datasource.NewsProvider) *Fetcher {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &Fetcher{providers: providers, rec: rec}
}

// Fetch returns up to count articles for ticker from the first provider that
// has any. Provider errors are reported to rep and never returned; when every
// provider fails or is empty the result is empty.
func (f *Fetcher) Fetch(ctx context.Context, ticker string, count int, rep Reporter) []models.NewsArticle {
	rep = orNop(rep)
	if count <= 0 {
		return nil
	}

	for _, p := range f.providers {
		items, err := p.SearchNews(ctx, ticker, count)
		switch {
		case errors.Is(err, datasource.ErrNoNews):
			f.rec.ObserveFetch(p.Name(), FetchEmpty)
			continue
		case err != nil:
			f.rec.ObserveFetch(p.Name(), FetchError)
			rep.Warn(fmt.Sprintf("Error fetching news for %s: %v", ticker, err))
			continue
		case len(items) == 0:
			f.rec.ObserveFetch(p.Name(), FetchEmpty)
			continue
		}

		f.rec.ObserveFetch(p.Name(), FetchOK)
		if len(items) > count {
			items = items[:count]
		}
		articles := make([]models.NewsArticle, len(items))
		for i, it := range items {
			articles[i] = toArticle(it)
		}
		return articles
	}
	return nil
}

// toArticle resolves provider omissions to the article defaults.
func toArticle(it datasource.NewsItem) models.NewsArticle {
	a := models.NewsArticle{
		Title:       deref(it.Title),
		Link:        deref(it.Link),
		Publisher:   deref(it.Publisher),
		Summary:     deref(it.Summary),
		PublishedAt: it.PublishedAt,
	}
	if a.Publisher == "" {
		a.Publisher = models.UnknownPublisher
	}
	// "#" is a display placeholder, never a fetchable link.
	if a.Link == models.NoLink {
		a.Link = ""
	}
	return a
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

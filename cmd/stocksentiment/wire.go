package main

import (
	"fmt"
	"strings"

	"github.com/seenimoa/stocksentiment/internal/analysis/sentiment"
	"github.com/seenimoa/stocksentiment/internal/config"
	"github.com/seenimoa/stocksentiment/internal/datasource"
	"github.com/seenimoa/stocksentiment/internal/extract"
	"github.com/seenimoa/stocksentiment/internal/infra"
	"github.com/seenimoa/stocksentiment/internal/pipeline"
	"github.com/seenimoa/stocksentiment/internal/telemetry"
)

// components are the collaborators shared by the analyze and serve commands.
type components struct {
	analyzer *pipeline.Analyzer
	quotes   datasource.QuoteProvider
	scorer   *sentiment.Scorer
}

// buildProviders creates the configured news providers in fallback order
// and the quote provider.
func buildProviders(c *config.Config) ([]datasource.NewsProvider, datasource.QuoteProvider, error) {
	ua := datasource.WithUserAgent(c.Extract.UserAgent)
	rl := datasource.WithRateLimit(c.News.RequestsPerSecond)

	yahoo := datasource.NewYFinance(ua, rl, datasource.WithBaseURL(c.News.YahooBaseURL))

	var news []datasource.NewsProvider
	for _, name := range c.News.Providers {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "yahoo":
			news = append(news, yahoo)
		case "rss":
			news = append(news, datasource.NewYahooRSS(ua, rl, datasource.WithBaseURL(c.News.RSSBaseURL)))
		default:
			return nil, nil, fmt.Errorf("unknown news provider %q", name)
		}
	}
	if len(news) == 0 {
		return nil, nil, fmt.Errorf("no news providers configured")
	}
	return news, yahoo, nil
}

// buildComponents wires the analysis pipeline. metrics may be nil.
func buildComponents(c *config.Config, metrics *telemetry.Metrics) (*components, error) {
	news, quotes, err := buildProviders(c)
	if err != nil {
		return nil, err
	}

	var rec pipeline.Recorder = pipeline.NopRecorder{}
	exOpts := []extract.Option{
		extract.WithTimeout(c.Extract.Timeout),
		extract.WithUserAgent(c.Extract.UserAgent),
		extract.WithMaxBodyBytes(c.Extract.MaxBodyBytes),
	}
	if metrics != nil {
		rec = metrics
		exOpts = append(exOpts, extract.WithRecorder(metrics))
	}

	scorer := sentiment.NewScorer(nil)
	processor := pipeline.NewProcessor(scorer, extract.New(exOpts...), pipeline.TimerSleeper{}, rec, pipeline.ProcessorConfig{
		Politeness:   c.Extract.PolitenessDelay,
		PreviewChars: c.Extract.PreviewChars,
	})

	return &components{
		analyzer: pipeline.NewAnalyzer(pipeline.NewFetcher(rec, news...), processor, scorer, rec),
		quotes:   quotes,
		scorer:   scorer,
	}, nil
}

// buildCache creates the configured result cache.
func buildCache(c *config.Config) (infra.ResultCache, error) {
	switch c.Cache.Backend {
	case config.CacheRedis:
		rc, err := infra.NewRedisCache(infra.RedisConfig{
			Address:  c.Cache.Redis.Address,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
		}, c.Cache.TTL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case config.CacheMemory, "":
		return infra.NewMemoryCache(c.Cache.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
}

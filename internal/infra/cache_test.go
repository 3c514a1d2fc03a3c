package infra

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stocksentiment/pkg/models"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		ID:             "run-1",
		Ticker:         "AAPL",
		RequestedCount: 2,
		Articles: []models.ProcessedArticle{{
			NewsArticle: models.NewsArticle{Title: "Apple beats estimates", Publisher: "Reuters"},
			Headline:    models.SentimentScore{Label: models.SentimentNeutral, Emoji: "😐"},
			FullText:    models.SentimentScore{Polarity: 0.433, Subjectivity: 0.733, Label: models.SentimentPositive, Emoji: "😊"},
			ArticleText: "Apple reported strong earnings.",
			Extracted:   true,
		}},
		AvgPolarity:     0.433,
		AvgSubjectivity: 0.733,
		Overall:         models.SentimentPositive,
		OverallEmoji:    "😊",
		AnalyzedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration:        1500 * time.Millisecond,
	}
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "analysis:AAPL:5", CacheKey("aapl", 5))
	assert.Equal(t, "analysis:BRK-B:10", CacheKey("BRK-B", 10))
	assert.NotEqual(t, CacheKey("AAPL", 5), CacheKey("AAPL", 6))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	res := sampleResult()
	require.NoError(t, c.Set(ctx, "k", res))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, res, got)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok, "expired entries are misses")
	assert.Equal(t, 0, c.Len(), "expired entries are removed on read")

	require.NoError(t, c.Set(ctx, "k", res))
	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestMemoryCacheDropsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for _, ticker := range []string{"AAPL", "MSFT", "TSLA"} {
		require.NoError(t, c.Set(ctx, CacheKey(ticker, 5), sampleResult()))
	}
	assert.Equal(t, 3, c.Len())

	// Keys that are never read again still go away on the next write.
	now = now.Add(2 * time.Minute)
	require.NoError(t, c.Set(ctx, CacheKey("NVDA", 5), sampleResult()))
	assert.Equal(t, 1, c.Len())

	now = now.Add(2 * time.Minute)
	c.Cleanup()
	assert.Equal(t, 0, c.Len())
}

func TestNewRedisCacheEmptyAddress(t *testing.T) {
	c, err := NewRedisCache(RedisConfig{}, time.Minute)
	assert.ErrorIs(t, err, ErrEmptyAddress)
	assert.Nil(t, c)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisCache(RedisConfig{Address: addr}, time.Minute)
	assert.Error(t, err)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(RedisConfig{Address: mr.Addr()}, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get(ctx, CacheKey("AAPL", 2))
	require.NoError(t, err)
	assert.False(t, ok)

	res := sampleResult()
	require.NoError(t, c.Set(ctx, CacheKey("AAPL", 2), res))
	assert.True(t, mr.Exists("analysis:AAPL:2"))
	assert.Equal(t, time.Minute, mr.TTL("analysis:AAPL:2"))

	got, ok, err := c.Get(ctx, CacheKey("AAPL", 2))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, res.Articles, got.Articles)
	assert.Nil(t, got.Combined)
	assert.True(t, res.AnalyzedAt.Equal(got.AnalyzedAt))
	assert.Equal(t, res.Duration, got.Duration)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, CacheKey("AAPL", 2))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", res))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedisCacheCorruptValue(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("analysis:AAPL:5", "{not json"))

	c, err := NewRedisCache(RedisConfig{Address: mr.Addr()}, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get(ctx, "analysis:AAPL:5")
	assert.Error(t, err)
	assert.False(t, ok)
}

// Package infra provides the shared result cache used by the API server
// and the watchlist scheduler. The analysis pipeline itself never reads it;
// hosts decide when a cached result may be reused.
package infra

import (
	"context"
	"fmt"
	"strings"

	"github.com/seenimoa/stocksentiment/pkg/models"
)

// ResultCache stores analysis results keyed by CacheKey.
type ResultCache interface {
	// Get returns the cached result for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) (*models.AnalysisResult, bool, error)
	Set(ctx context.Context, key string, res *models.AnalysisResult) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// keyPrefix namespaces result keys in shared stores.
const keyPrefix = "analysis:"

// CacheKey returns the cache key for a ticker and article count,
// e.g. "analysis:AAPL:5".
func CacheKey(ticker string, count int) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, strings.ToUpper(ticker), count)
}

// Package scheduler periodically re-analyzes a watchlist of tickers and
// stores the results in the shared result cache.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/seenimoa/stocksentiment/internal/infra"
	"github.com/seenimoa/stocksentiment/internal/logging"
	"github.com/seenimoa/stocksentiment/internal/pipeline"
	"github.com/seenimoa/stocksentiment/pkg/models"
)

// ErrEmptySchedule is returned by Start without a cron schedule.
var ErrEmptySchedule = errors.New("refresh schedule is empty")

// runTimeout bounds one refresh of the whole watchlist.
const runTimeout = 30 * time.Minute

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string, count int, rep pipeline.Reporter) *models.AnalysisResult
}

// Scheduler refreshes cached analyses for a fixed watchlist.
type Scheduler struct {
	analyzer  Analyzer
	cache     infra.ResultCache
	watchlist []string
	count     int
	logger    logging.Logger
	cron      *cron.Cron

	// base parents every refresh; Stop cancels it.
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// New creates a scheduler that analyzes every ticker in watchlist with
// count articles.
func New(analyzer Analyzer, cache infra.ResultCache, watchlist []string, count int, logger logging.Logger) *Scheduler {
	base, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		base:      base,
		cancel:    cancel,
		analyzer:  analyzer,
		cache:     cache,
		watchlist: watchlist,
		count:     count,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start begins refreshing on schedule, a standard five-field cron spec or a
// descriptor such as "@every 15m".
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		return ErrEmptySchedule
	}

	_, err := s.cron.AddFunc(schedule, s.run)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Watchlist scheduler started",
		logging.String("schedule", schedule),
		logging.Int("tickers", len(s.watchlist)),
	)
	return nil
}

// Stop stops the scheduler, cancels a running refresh and waits for it
// to return. A stopped scheduler cannot be restarted.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("Watchlist scheduler stopped")
}

// RunNow triggers an immediate refresh in the background.
func (s *Scheduler) RunNow() {
	s.logger.Info("Triggering immediate watchlist refresh")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(s.base, runTimeout)
	defer cancel()
	s.Refresh(ctx)
}

// Refresh analyzes every watchlist ticker in order and caches the results.
// It returns the number of tickers refreshed; a refresh that starts while
// another is running is skipped and returns 0.
func (s *Scheduler) Refresh(ctx context.Context) int {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Watchlist refresh already running, skipping")
		return 0
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	refreshed := 0
	for _, ticker := range s.watchlist {
		if ctx.Err() != nil {
			break
		}
		log := s.logger.With(logging.String("ticker", ticker))
		res := s.analyzer.Analyze(ctx, ticker, s.count, pipeline.NewLogReporter(log))
		if ctx.Err() != nil {
			// Interrupted runs fall back to headline scores; keep the previous entry.
			log.Warn("Watchlist refresh interrupted, not caching", logging.Error(ctx.Err()))
			break
		}
		if err := s.cache.Set(ctx, infra.CacheKey(ticker, s.count), res); err != nil {
			log.Error("Failed to cache analysis", logging.Error(err))
			continue
		}
		refreshed++
	}

	s.logger.Info("Watchlist refresh completed",
		logging.Int("refreshed", refreshed),
		logging.Int("tickers", len(s.watchlist)),
		logging.Duration("duration", time.Since(start)),
	)
	return refreshed
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seenimoa/stocksentiment/api"
	"github.com/seenimoa/stocksentiment/internal/logging"
	"github.com/seenimoa/stocksentiment/internal/scheduler"
	"github.com/seenimoa/stocksentiment/internal/telemetry"
)

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server and web dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}
		if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
			cfg.API.ServeUI = false
		}

		metrics := telemetry.New()
		comps, err := buildComponents(cfg, metrics)
		if err != nil {
			return err
		}

		cache, err := buildCache(cfg)
		if err != nil {
			return fmt.Errorf("failed to create %s cache: %w", cfg.Cache.Backend, err)
		}
		defer cache.Close()

		srv, err := api.NewServer(cfg, api.Deps{
			Analyzer: comps.analyzer,
			Quotes:   comps.quotes,
			Scorer:   comps.scorer,
			Cache:    cache,
			Metrics:  metrics,
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Analysis.RefreshSchedule != "" && len(cfg.Analysis.Watchlist) > 0 {
			sched := scheduler.New(comps.analyzer, cache, cfg.Analysis.Watchlist, cfg.News.DefaultCount, logger)
			if err := sched.Start(cfg.Analysis.RefreshSchedule); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			defer sched.Stop()
			if warm, _ := cmd.Flags().GetBool("warm"); warm {
				sched.RunNow()
			}
		}

		fmt.Printf("🌐 Starting stocksentiment on http://%s\n", cfg.API.Addr())
		logger.Info("Server configuration",
			logging.String("cache", cfg.Cache.Backend),
			logging.Bool("ui", cfg.API.ServeUI),
		)
		return srv.ListenAndServe(ctx, cfg.API.Addr())
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "override the configured API port")
	serveCmd.Flags().Bool("no-ui", false, "disable the embedded web dashboard")
	serveCmd.Flags().Bool("warm", false, "analyze the watchlist immediately on startup")
}

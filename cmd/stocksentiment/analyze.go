package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stocksentiment/internal/logging"
	"github.com/seenimoa/stocksentiment/pkg/models"
	"github.com/seenimoa/stocksentiment/pkg/utils"
)

// User-facing prompts for missing input.
const (
	msgTickerRequired = "Please enter a stock ticker symbol."
	msgTextRequired   = "Please enter some text to analyze."
)

var (
	errNoTicker = errors.New("no ticker symbol given")
	errNoText   = errors.New("no text given")
)

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Analyze news sentiment for a stock",
	Long: `Fetch recent news for a ticker, extract each article's text and
print headline and full-text sentiment with an overall verdict.

Examples:
  stocksentiment analyze AAPL
  stocksentiment analyze tsla --count 10 --no-quote`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])
		if ticker == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), msgTickerRequired)
			return errNoTicker
		}
		if !utils.ValidTicker(ticker) {
			return fmt.Errorf("invalid ticker symbol %q", ticker)
		}
		count, _ := cmd.Flags().GetInt("count")
		noQuote, _ := cmd.Flags().GetBool("no-quote")
		count = cfg.ClampCount(count)

		comps, err := buildComponents(cfg, nil)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var (
			quote  *models.Quote
			result *models.AnalysisResult
		)
		g, gctx := errgroup.WithContext(ctx)
		if !noQuote {
			g.Go(func() error {
				q, err := comps.quotes.GetQuote(gctx, ticker)
				if err != nil {
					logger.Warn("Quote lookup failed", logging.String("ticker", ticker), logging.Error(err))
					return nil
				}
				quote = q
				return nil
			})
		}
		g.Go(func() error {
			result = comps.analyzer.Analyze(gctx, ticker, count, newTermReporter(cmd.ErrOrStderr()))
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n📰 %s news sentiment\n\n", ticker)
		if quote != nil {
			renderQuote(out, quote)
		}
		renderResult(out, result)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().IntP("count", "n", 0, "number of articles to analyze (1-10, default from config)")
	analyzeCmd.Flags().Bool("no-quote", false, "skip the stock information lookup")
}

// --- Score Command ---

var scoreCmd = &cobra.Command{
	Use:   "score [text...]",
	Short: "Score the sentiment of custom text",
	Long: `Score arbitrary text. With no arguments the text is read from stdin.

Examples:
  stocksentiment score "Record profits beat expectations"
  cat article.txt | stocksentiment score`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(b)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), msgTextRequired)
			return errNoText
		}

		comps, err := buildComponents(cfg, nil)
		if err != nil {
			return err
		}
		renderScore(cmd.OutOrStdout(), comps.scorer.Score(text))
		return nil
	},
}

// termReporter prints pipeline progress to a terminal stream.
type termReporter struct {
	w io.Writer
}

func newTermReporter(w io.Writer) *termReporter {
	return &termReporter{w: w}
}

func (r *termReporter) Status(msg string) {
	fmt.Fprintf(r.w, "  %s\n", msg)
}

func (r *termReporter) Progress(fraction float64) {
	const width = 20
	filled := int(fraction*width + 0.5)
	if filled > width {
		filled = width
	}
	fmt.Fprintf(r.w, "  [%s%s] %3.0f%%\n", strings.Repeat("█", filled), strings.Repeat("░", width-filled), fraction*100)
}

func (r *termReporter) Warn(msg string) {
	fmt.Fprintf(r.w, "  ⚠️  %s\n", msg)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stocksentiment/internal/datasource"
	"github.com/seenimoa/stocksentiment/internal/infra"
	"github.com/seenimoa/stocksentiment/internal/logging"
	"github.com/seenimoa/stocksentiment/internal/pipeline"
	"github.com/seenimoa/stocksentiment/pkg/models"
	"github.com/seenimoa/stocksentiment/pkg/utils"
)

// Version is reported by the health endpoint; set by the CLI at startup.
var Version = "dev"

// User-facing validation messages.
const (
	msgTickerRequired = "Please enter a stock ticker symbol."
	msgTextRequired   = "Please enter some text to analyze."
)

// quoteTimeout bounds the quote lookup that runs alongside an analysis.
const quoteTimeout = 15 * time.Second

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Ticker  string `json:"ticker"   validate:"required,max=12"`
	Count   int    `json:"count"    validate:"omitempty,min=1,max=10"`
	Refresh bool   `json:"refresh"`  // skip the cached result
	NoQuote bool   `json:"no_quote"` // skip the stock information lookup
}

// AnalyzeResponse is the data of a successful analysis.
type AnalyzeResponse struct {
	Analysis   *models.AnalysisResult `json:"analysis"`
	Quote      *models.Quote          `json:"quote,omitempty"`
	QuoteError string                 `json:"quote_error,omitempty"`
	Cached     bool                   `json:"cached"`
}

// SentimentRequest is the body of POST /api/v1/sentiment.
type SentimentRequest struct {
	Text string `json:"text" validate:"required,max=100000"`
}

// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":     "ok",
			"version":    Version,
			"ws_clients": s.wsHub.ClientCount(),
			"time":       time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Ticker = utils.NormalizeTicker(req.Ticker)
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if !utils.ValidTicker(req.Ticker) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid ticker symbol %q", req.Ticker))
		return
	}

	ticker := req.Ticker
	count := s.cfg.ClampCount(req.Count)
	key := infra.CacheKey(ticker, count)
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	log := s.log.With(logging.String("ticker", ticker), logging.String("request_id", reqID))

	resp := AnalyzeResponse{}
	if !req.Refresh {
		if cached, ok := s.cacheGet(ctx, key); ok {
			resp.Analysis = cached
			resp.Cached = true
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if !req.NoQuote && s.deps.Quotes != nil {
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, quoteTimeout)
			defer cancel()
			q, err := s.deps.Quotes.GetQuote(qctx, ticker)
			if err != nil {
				// Stock information is supplementary; the analysis still stands.
				log.Warn("Quote lookup failed", logging.Error(err))
				resp.QuoteError = err.Error()
				return nil
			}
			resp.Quote = q
			return nil
		})
	}
	if !resp.Cached {
		g.Go(func() error {
			rep := pipeline.MultiReporter{
				newWSReporter(s.wsHub, reqID, ticker),
				pipeline.NewLogReporter(log),
			}
			resp.Analysis = s.deps.Analyzer.Analyze(gctx, ticker, count, rep)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch {
	case resp.Cached:
	case ctx.Err() != nil:
		// A canceled run fell back to headline scores; caching it would
		// serve the degraded result for the whole TTL.
		log.Warn("Analysis interrupted, not caching", logging.Error(ctx.Err()))
	default:
		if err := s.deps.Cache.Set(ctx, key, resp.Analysis); err != nil {
			log.Error("Failed to cache analysis", logging.Error(err))
		}
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"request_id":  reqID,
			"analysis_id": resp.Analysis.ID,
			"ticker":      ticker,
			"overall":     resp.Analysis.Overall,
			"articles":    len(resp.Analysis.Articles),
			"cached":      resp.Cached,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    resp,
	})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	ticker, count, ok := s.tickerAndCount(w, r)
	if !ok {
		return
	}

	res, found := s.cacheGet(r.Context(), infra.CacheKey(ticker, count))
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no cached analysis for %s with %d articles", ticker, count))
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    res,
	})
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	ticker, count, ok := s.tickerAndCount(w, r)
	if !ok {
		return
	}

	if err := s.deps.Cache.Delete(r.Context(), infra.CacheKey(ticker, count)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req SentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.deps.Scorer.Score(req.Text),
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if s.deps.Quotes == nil {
		writeError(w, http.StatusNotImplemented, "quotes are not configured")
		return
	}

	ticker := utils.NormalizeTicker(chi.URLParam(r, "ticker"))
	if !utils.ValidTicker(ticker) {
		writeError(w, http.StatusBadRequest, msgTickerRequired)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), quoteTimeout)
	defer cancel()

	quote, err := s.deps.Quotes.GetQuote(ctx, ticker)
	switch {
	case errors.Is(err, datasource.ErrTickerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    quote,
	})
}

// tickerAndCount reads {ticker} and ?count= and writes a 400 on bad input.
func (s *Server) tickerAndCount(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	ticker := utils.NormalizeTicker(chi.URLParam(r, "ticker"))
	if !utils.ValidTicker(ticker) {
		writeError(w, http.StatusBadRequest, msgTickerRequired)
		return "", 0, false
	}

	count := s.cfg.News.DefaultCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > s.cfg.News.MaxCount {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be between 1 and %d", s.cfg.News.MaxCount))
			return "", 0, false
		}
		count = n
	}
	return ticker, count, true
}

// cacheGet looks key up, treating cache errors as misses.
func (s *Server) cacheGet(ctx context.Context, key string) (*models.AnalysisResult, bool) {
	res, ok, err := s.deps.Cache.Get(ctx, key)
	switch {
	case err != nil:
		s.log.Warn("Cache lookup failed", logging.String("key", key), logging.Error(err))
		s.observeCache("error")
		return nil, false
	case ok:
		s.observeCache("hit")
	default:
		s.observeCache("miss")
	}
	return res, ok
}

func (s *Server) observeCache(result string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveCacheLookup(result)
	}
}

// validationMessage turns validator errors into a user-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch {
	case fe.Field() == "Ticker" && fe.Tag() == "required":
		return msgTickerRequired
	case fe.Field() == "Text" && fe.Tag() == "required":
		return msgTextRequired
	case fe.Field() == "Count":
		return "count must be between 1 and 10"
	default:
		return fmt.Sprintf("%s failed %q validation", strings.ToLower(fe.Field()), fe.Tag())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

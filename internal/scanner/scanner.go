package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/store"
	"TrendSentinel/internal/strategy"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// Scanner runs the engine over a list of symbols and detects total trend
// transitions against an externally owned verdict store.
type Scanner struct {
	collector *collector.Collector
	params    strategy.Params
	workers   int
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	now func() time.Time
}

// NewScanner creates a Scanner. workers below one mean a single worker.
func NewScanner(col *collector.Collector, p strategy.Params, workers int, m *metrics.Metrics, logger zerolog.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		collector: col,
		params:    p,
		workers:   workers,
		metrics:   m,
		logger:    logger.With().Str("component", "scanner").Logger(),
		now:       time.Now,
	}
}

// symbolResult is the outcome of one symbol, written by exactly one worker.
type symbolResult struct {
	analysis model.SymbolAnalysis
	failures []model.Failure
}

// AnalyzeOne collects and classifies every timeframe of a symbol. A timeframe
// that cannot be fetched or is malformed is unavailable and reported as a failure.
func (s *Scanner) AnalyzeOne(ctx context.Context, symbol string) (model.SymbolAnalysis, []model.Failure) {
	analyses := make(map[model.Timeframe]model.TimeframeAnalysis, len(model.Timeframes))
	var failures []model.Failure

	for _, tf := range model.Timeframes {
		series, err := s.collector.Collect(ctx, symbol, tf)
		if err != nil {
			s.metrics.ObserveFetchFailure(tf)
			s.metrics.ObserveAnalysis(tf, metrics.OutcomeError)
			failures = append(failures, model.Failure{Symbol: symbol, Timeframe: tf, Reason: err.Error()})
			analyses[tf] = model.UnavailableAnalysis()
			continue
		}

		a, err := strategy.AnalyzeSeries(series.Bars, s.params)
		switch {
		case err != nil:
			kind, _ := model.KindOf(err)
			s.logger.Warn().Err(err).Str("symbol", symbol).Str("timeframe", tf.String()).
				Stringer("kind", kind).Msg("analysis failed")
			s.metrics.ObserveAnalysis(tf, metrics.OutcomeError)
			failures = append(failures, model.Failure{Symbol: symbol, Timeframe: tf, Reason: err.Error()})
		case a.Trend.Available:
			s.metrics.ObserveAnalysis(tf, metrics.OutcomeAvailable)
		case a.Degenerate != nil:
			kind, _ := model.KindOf(a.Degenerate)
			s.logger.Info().Err(a.Degenerate).Str("symbol", symbol).Str("timeframe", tf.String()).
				Stringer("kind", kind).Msg("get withheld")
			s.metrics.ObserveAnalysis(tf, metrics.OutcomeUnavailable)
		default:
			s.logger.Debug().Str("symbol", symbol).Str("timeframe", tf.String()).
				Int("bars", len(series.Bars)).Msg("analysis unavailable")
			s.metrics.ObserveAnalysis(tf, metrics.OutcomeUnavailable)
		}
		analyses[tf] = a
	}

	return strategy.Combine(symbol, analyses, s.params), failures
}

// Scan analyses symbols with a bounded worker pool and returns a report whose
// rows keep the input order. Once ctx is done no new symbol is started and the
// remaining ones are reported unavailable. Transitions are detected after all
// symbols complete, sequentially against st, which is updated with every
// available verdict.
func (s *Scanner) Scan(ctx context.Context, portfolio string, symbols []string, st store.Store) (*model.Report, error) {
	report := &model.Report{
		RunID:     uuid.NewString(),
		Portfolio: portfolio,
		StartedAt: s.now().UTC(),
	}
	log := s.logger.With().Str("run_id", report.RunID).Str("portfolio", portfolio).Logger()
	log.Info().Int("symbols", len(symbols)).Int("workers", s.workers).Msg("scan started")

	results := make([]symbolResult, len(symbols))
	p := pool.New().WithMaxGoroutines(s.workers)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				results[i] = symbolResult{
					analysis: strategy.Combine(symbol, nil, s.params),
					failures: []model.Failure{{Symbol: symbol, Reason: err.Error()}},
				}
				return
			}
			a, failures := s.AnalyzeOne(ctx, symbol)
			results[i] = symbolResult{analysis: a, failures: failures}
		})
	}
	p.Wait()

	report.Symbols = make([]model.SymbolAnalysis, 0, len(symbols))
	for _, r := range results {
		report.Symbols = append(report.Symbols, r.analysis)
		report.Failures = append(report.Failures, r.failures...)
	}
	report.FinishedAt = s.now().UTC()

	var errs []error
	if err := s.detectTransitions(ctx, report, st); err != nil {
		errs = append(errs, err)
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, fmt.Errorf("scan %s interrupted: %w", report.RunID, err))
	}

	s.metrics.ObserveScan(report)
	buy, sell, hold := report.Counts()
	log.Info().Int("buy", buy).Int("sell", sell).Int("hold", hold).
		Int("transitions", len(report.Transitions)).Int("failures", len(report.Failures)).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).Msg("scan finished")

	return report, errors.Join(errs...)
}

// detectTransitions compares each available total trend with the stored
// verdict. A first sighting or an unchanged action is not a transition, and
// neither is a change into Hold.
func (s *Scanner) detectTransitions(ctx context.Context, report *model.Report, st store.Store) error {
	if st == nil {
		return nil
	}

	// Verdicts of completed symbols are persisted even when the scan was cancelled.
	storeCtx := context.WithoutCancel(ctx)

	var errs []error
	for _, a := range report.Symbols {
		total := a.TotalTrend
		if !total.Available {
			continue
		}

		prev, found, err := st.Get(storeCtx, a.Symbol)
		if err != nil {
			s.logger.Error().Err(err).Str("symbol", a.Symbol).Msg("read verdict")
			errs = append(errs, fmt.Errorf("read verdict %s: %w", a.Symbol, err))
			continue
		}

		if found && prev.Action != total.Action && total.Action != model.Hold {
			report.Transitions = append(report.Transitions, model.Transition{
				Symbol: a.Symbol,
				From:   prev.Action,
				To:     total.Action,
				Score:  total.Score,
				Label:  total.Label,
				At:     report.FinishedAt,
			})
		}

		next := model.Verdict{Action: total.Action, Score: total.Score, Label: total.Label, UpdatedAt: report.FinishedAt}
		if err := st.Put(storeCtx, a.Symbol, next); err != nil {
			s.logger.Error().Err(err).Str("symbol", a.Symbol).Msg("write verdict")
			errs = append(errs, fmt.Errorf("write verdict %s: %w", a.Symbol, err))
		}
	}
	return errors.Join(errs...)
}

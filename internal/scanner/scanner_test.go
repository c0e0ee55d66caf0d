package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/store"
	"TrendSentinel/internal/strategy"

	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

var fixtureStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

// rampBars moves the close by step each bar and by jump on the last one.
func rampBars(n int, start, step, jump float64) []model.Bar {
	bars := make([]model.Bar, n)
	c := start
	for i := range bars {
		if i == n-1 {
			c += jump
		} else {
			c += step
		}
		bars[i] = model.Bar{
			Time:   fixtureStart.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 500,
		}
	}
	return bars
}

func rising() []model.Bar  { return rampBars(40, 100, 0.5, 0.5) }
func falling() []model.Bar { return rampBars(40, 200, -0.5, -0.5) }

// sideways ends every timeframe on "Hold (1)".
func sideways() []model.Bar { return rampBars(40, 200, -0.5, 10) }

func setBars(f *collector.MockFetcher, symbol string, bars []model.Bar) {
	if f.Bars == nil {
		f.Bars = make(map[string][]model.Bar)
	}
	for _, tf := range model.Timeframes {
		f.Bars[collector.MockKey(symbol, tf)] = bars
	}
}

func testScanner(f collector.Fetcher, workers int) (*Scanner, *metrics.Metrics) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	col := collector.NewCollector(f, 1, 0, zerolog.Nop())
	return NewScanner(col, strategy.DefaultParams(), workers, m, zerolog.Nop()), m
}

func symbolsOf(r *model.Report) []string {
	out := make([]string, 0, len(r.Symbols))
	for _, s := range r.Symbols {
		out = append(out, s.Symbol)
	}
	return out
}

func TestScanTransitions(t *testing.T) {
	f := &collector.MockFetcher{}
	setBars(f, "AAPL", rising())
	setBars(f, "MSFT", falling())
	s, m := testScanner(f, 2)

	st := store.NewMemoryStore()
	ctx := context.Background()
	assert.NoError(t, st.Put(ctx, "AAPL", model.Verdict{Action: model.Sell, Score: -6, Label: "Sell (-6.0)"}))

	report, err := s.Scan(ctx, "core", []string{"AAPL", "MSFT"}, st)
	assert.NoError(t, err)
	assert.Equal(t, "core", report.Portfolio)
	assert.True(t, report.RunID != "")
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbolsOf(report))
	assert.Equal(t, model.Buy, report.Symbols[0].TotalTrend.Action)
	assert.Equal(t, model.Sell, report.Symbols[1].TotalTrend.Action)
	assert.Equal(t, 0, len(report.Failures))

	// Ensure only AAPL transitions; MSFT is a first sighting.
	assert.Equal(t, 1, len(report.Transitions))
	tr := report.Transitions[0]
	assert.Equal(t, "AAPL", tr.Symbol)
	assert.Equal(t, model.Sell, tr.From)
	assert.Equal(t, model.Buy, tr.To)
	assert.Equal(t, report.Symbols[0].TotalTrend.Label, tr.Label)

	v, ok, err := st.Get(ctx, "MSFT")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.Sell, v.Action)
	assert.Equal(t, report.FinishedAt, v.UpdatedAt)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("Buy")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("Daily", metrics.OutcomeAvailable)))

	// Ensure an unchanged verdict does not fire again.
	report, err = s.Scan(ctx, "core", []string{"AAPL", "MSFT"}, st)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(report.Transitions))
}

func TestScanHoldIsNotATransition(t *testing.T) {
	f := &collector.MockFetcher{}
	setBars(f, "0700.HK", sideways())
	s, _ := testScanner(f, 1)

	st := store.NewMemoryStore()
	ctx := context.Background()
	assert.NoError(t, st.Put(ctx, "0700.HK", model.Verdict{Action: model.Buy}))

	report, err := s.Scan(ctx, "hk", []string{"0700.HK"}, st)
	assert.NoError(t, err)
	assert.Equal(t, "Hold (1.0)", report.Symbols[0].TotalTrend.Label)
	assert.Equal(t, 0, len(report.Transitions))

	v, _, err := st.Get(ctx, "0700.HK")
	assert.NoError(t, err)
	assert.Equal(t, model.Hold, v.Action)

	// Ensure leaving Hold into Buy is reported.
	setBars(f, "0700.HK", rising())
	report, err = s.Scan(ctx, "hk", []string{"0700.HK"}, st)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(report.Transitions))
	assert.Equal(t, model.Hold, report.Transitions[0].From)
	assert.Equal(t, model.Buy, report.Transitions[0].To)
}

func TestScanFailures(t *testing.T) {
	f := &collector.MockFetcher{Errors: map[string]error{
		collector.MockKey("AAPL", model.Daily): errors.New("upstream 502"),
	}}
	setBars(f, "AAPL", rising())
	setBars(f, "NVDA", rising())
	f.Bars[collector.MockKey("NVDA", model.Hourly)] = rising()[:12]
	s, m := testScanner(f, 2)

	st := store.NewMemoryStore()
	report, err := s.Scan(context.Background(), "core", []string{"AAPL", "NVDA"}, st)
	assert.NoError(t, err)

	aapl := report.Symbols[0]
	assert.Equal(t, model.UnavailableAnalysis(), aapl.Timeframes[model.Daily])
	assert.True(t, aapl.Timeframes[model.Weekly].Trend.Available)
	assert.Equal(t, model.UnavailableTrend(), aapl.TotalTrend)

	// Ensure a short series is unavailable without being a failure.
	nvda := report.Symbols[1]
	assert.False(t, nvda.Timeframes[model.Hourly].Trend.Available)
	assert.False(t, nvda.TotalTrend.Available)

	assert.Equal(t, 1, len(report.Failures))
	assert.Equal(t, "AAPL", report.Failures[0].Symbol)
	assert.Equal(t, model.Daily, report.Failures[0].Timeframe)

	// Ensure unavailable totals leave the store untouched.
	assert.Equal(t, 0, len(st.Snapshot()))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures.WithLabelValues("Daily")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("Hourly", metrics.OutcomeUnavailable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("Daily", metrics.OutcomeError)))
}

func TestScanKeepsInputOrder(t *testing.T) {
	s, _ := testScanner(&collector.MockFetcher{Price: 80}, 3)

	symbols := make([]string, 12)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("SYM%02d", i)
	}
	report, err := s.Scan(context.Background(), "generated", symbols, nil)
	assert.NoError(t, err)
	if diff := cmp.Diff(symbols, symbolsOf(report)); diff != "" {
		t.Errorf("unexpected symbol order (-want +got):\n%s", diff)
	}
	for _, a := range report.Symbols {
		assert.Equal(t, 3, len(a.Timeframes))
	}
}

func TestScanCancelled(t *testing.T) {
	f := &collector.MockFetcher{}
	setBars(f, "AAPL", rising())
	s, _ := testScanner(f, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := store.NewMemoryStore()
	report, err := s.Scan(ctx, "core", []string{"AAPL", "MSFT"}, st)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbolsOf(report))
	for _, a := range report.Symbols {
		assert.False(t, a.TotalTrend.Available)
	}
	assert.Equal(t, 2, len(report.Failures))
	assert.Equal(t, 0, f.Calls("AAPL", model.Daily))
	assert.Equal(t, 0, len(st.Snapshot()))
}

type failingStore struct{ *store.MemoryStore }

func (failingStore) Put(context.Context, string, model.Verdict) error {
	return errors.New("disk full")
}

func TestScanStoreErrors(t *testing.T) {
	f := &collector.MockFetcher{}
	setBars(f, "AAPL", rising())
	s, _ := testScanner(f, 1)

	st := failingStore{store.NewMemoryStore()}
	report, err := s.Scan(context.Background(), "core", []string{"AAPL"}, st)
	assert.Error(t, err)
	assert.Equal(t, model.Buy, report.Symbols[0].TotalTrend.Action)
}

func TestAnalyzeOne(t *testing.T) {
	f := &collector.MockFetcher{}
	setBars(f, "AAPL", falling())
	s, _ := testScanner(f, 1)

	a, failures := s.AnalyzeOne(context.Background(), "AAPL")
	assert.Equal(t, 0, len(failures))
	assert.Equal(t, "AAPL", a.Symbol)
	assert.Equal(t, model.Sell, a.TotalTrend.Action)
	assert.Equal(t, model.Negative, a.TotalTrend.Polarity)
}

func TestAnalyzeOneLogsFlatRange(t *testing.T) {
	flat := rampBars(40, 50, 0, 0)
	for i := range flat {
		flat[i].High, flat[i].Low = flat[i].Close, flat[i].Close
	}
	f := &collector.MockFetcher{}
	setBars(f, "PEG", flat)

	var buf bytes.Buffer
	m := metrics.NewMetrics(prometheus.NewRegistry())
	col := collector.NewCollector(f, 1, 0, zerolog.Nop())
	s := NewScanner(col, strategy.DefaultParams(), 1, m, zerolog.New(&buf))

	a, failures := s.AnalyzeOne(context.Background(), "PEG")
	assert.Equal(t, 0, len(failures))
	assert.False(t, a.Timeframes[model.Daily].Get.Available)
	assert.True(t, errors.Is(a.Timeframes[model.Daily].Degenerate, model.ErrDegenerateArithmetic))
	assert.True(t, strings.Contains(buf.String(), `"kind":"degenerate arithmetic"`))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("Daily", metrics.OutcomeUnavailable)))
}

package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/scanner"
	"TrendSentinel/internal/store"
	"TrendSentinel/internal/strategy"

	"github.com/peterldowns/testy/assert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type fakeNotifier struct {
	mu          sync.Mutex
	transitions []*model.Report
	summaries   int
}

func (f *fakeNotifier) Send(context.Context, string) error { return nil }

func (f *fakeNotifier) NotifyTransitions(_ context.Context, report *model.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = append(f.transitions, report)
	return nil
}

func (f *fakeNotifier) NotifySummary(context.Context, *model.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries++
	return nil
}

func steadyBars(step float64) []model.Bar {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, 40)
	c := 150.0
	for i := range bars {
		c += step
		bars[i] = model.Bar{Time: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 500}
	}
	return bars
}

func testScheduler(t *testing.T) (*Scheduler, *fakeNotifier, *collector.MockFetcher) {
	t.Helper()

	f := &collector.MockFetcher{Bars: make(map[string][]model.Bar)}
	for _, tf := range model.Timeframes {
		f.Bars[collector.MockKey("AAPL", tf)] = steadyBars(0.5)
		f.Bars[collector.MockKey("0700.HK", tf)] = steadyBars(-0.5)
	}

	col := collector.NewCollector(f, 1, 0, zerolog.Nop())
	m := metrics.NewMetrics(prometheus.NewRegistry())
	sc := scanner.NewScanner(col, strategy.DefaultParams(), 2, m, zerolog.Nop())

	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), zerolog.Nop())
	assert.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	n := &fakeNotifier{}
	portfolios := map[string][]string{
		"US Stocks": {"AAPL"},
		"HK Stocks": {"0700.HK"},
	}
	s := NewScheduler(context.Background(), sc, store.NewMemoryStore(), n, rec,
		metrics.NewHealthStatus(), portfolios, "US Stocks", zerolog.Nop())
	return s, n, f
}

func TestRunScan(t *testing.T) {
	s, n, _ := testScheduler(t)

	report, err := s.RunScan(context.Background(), "US Stocks")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(report.Symbols))
	assert.Equal(t, model.Buy, report.Symbols[0].TotalTrend.Action)
	assert.Equal(t, 1, len(n.transitions))
	assert.Equal(t, report.RunID, s.Health.LastRunID)
	assert.Equal(t, "", s.Health.LastError)

	history, err := s.Recorder.History("AAPL", 5)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(history))
	assert.Equal(t, report.RunID, history[0].RunID)

	_, err = s.RunScan(context.Background(), "Crypto")
	assert.Error(t, err)
}

func TestRunScanIsExclusive(t *testing.T) {
	s, _, _ := testScheduler(t)

	s.running.Lock()
	_, err := s.RunScan(context.Background(), "US Stocks")
	s.running.Unlock()
	assert.True(t, errors.Is(err, ErrScanRunning))
}

func TestRegister(t *testing.T) {
	s, _, _ := testScheduler(t)
	assert.NoError(t, s.Register("0 0 * * * *"))
	assert.Error(t, s.Register("every hour"))
	assert.Equal(t, 1, len(s.Cron.Entries()))
}

func TestRunNow(t *testing.T) {
	s, n, f := testScheduler(t)
	s.RunNow()
	assert.Equal(t, 1, f.Calls("AAPL", model.Daily))
	assert.Equal(t, 0, f.Calls("0700.HK", model.Daily))
	assert.False(t, s.Health.LastScan.IsZero())
	assert.Equal(t, 0, n.summaries)

	s.SendSummary = true
	s.RunNow()
	assert.Equal(t, 1, n.summaries)
	assert.Equal(t, 2, len(n.transitions))
}

func TestHandleCommand(t *testing.T) {
	s, _, f := testScheduler(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		command  string
		args     string
		contains string
	}{
		{name: "scan default portfolio", command: "scan", contains: "Buy: 1 | Sell: 0 | Hold: 0"},
		{name: "scan named portfolio", command: "scan", args: "hk stocks", contains: "Buy: 0 | Sell: 1 | Hold: 0"},
		{name: "scan unknown portfolio", command: "scan", args: "crypto", contains: "Scan failed"},
		{name: "portfolios", command: "portfolios", contains: "<b>HK Stocks</b>: 0700.HK"},
		{name: "symbol", command: "symbol", args: "aapl", contains: "<b>AAPL</b>"},
		{name: "symbol without ticker", command: "symbol", contains: "Usage: /symbol"},
		{name: "history", command: "history", args: "aapl", contains: "AAPL history"},
		{name: "history without runs", command: "history", args: "MSFT", contains: "No history recorded for MSFT"},
		{name: "help", command: "start", contains: "/scan [portfolio]"},
	}

	for _, test := range tests {
		reply := s.HandleCommand(ctx, test.command, test.args)
		if !strings.Contains(reply, test.contains) {
			t.Errorf("%s: expected reply to contain %q, got %q", test.name, test.contains, reply)
		}
	}

	// Ensure /symbol fetches without touching the store.
	assert.True(t, f.Calls("AAPL", model.Hourly) >= 2)
	_, ok, err := s.Store.Get(ctx, "MSFT")
	assert.NoError(t, err)
	assert.False(t, ok)
}

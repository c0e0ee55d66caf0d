package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"TrendSentinel/internal/model"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without configured bars get a generated series around Price.
type MockFetcher struct {
	Price float64
	// Bars holds fixed series keyed by MockKey.
	Bars map[string][]model.Bar
	// Errors holds fixed failures keyed by MockKey.
	Errors map[string]error
	// FailFirst fails the first n calls of every key.
	FailFirst int

	mu    sync.Mutex
	calls map[string]int
}

// Ensure the MockFetcher implements the Fetcher interface.
var _ Fetcher = (*MockFetcher)(nil)

// MockKey returns the key of a (symbol, timeframe) pair in MockFetcher maps.
func MockKey(symbol string, tf model.Timeframe) string {
	return symbol + "|" + string(tf)
}

func (m *MockFetcher) Name() string { return "mock" }

// FetchBars returns the configured bars or error for the pair.
func (m *MockFetcher) FetchBars(ctx context.Context, symbol string, tf model.Timeframe, start, end time.Time) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := MockKey(symbol, tf)
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[key]++
	call := m.calls[key]
	m.mu.Unlock()

	if call <= m.FailFirst {
		return nil, fmt.Errorf("mock: transient failure %d for %s", call, key)
	}
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[key]; ok {
		return append([]model.Bar(nil), bars...), nil
	}

	price := m.Price
	if price == 0 {
		price = 100
	}
	return generateMockBars(price, tf, start, end), nil
}

// Calls returns how many times the pair was fetched.
func (m *MockFetcher) Calls(symbol string, tf model.Timeframe) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[MockKey(symbol, tf)]
}

func generateMockBars(basePrice float64, tf model.Timeframe, start, end time.Time) []model.Bar {
	step := barInterval(tf)
	count := int(end.Sub(start) / step)
	if count <= 0 {
		return nil
	}

	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.03*math.Sin(float64(i)/6) + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:   end.Add(-time.Duration(count-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

func barInterval(tf model.Timeframe) time.Duration {
	switch tf {
	case model.Weekly:
		return 7 * 24 * time.Hour
	case model.Hourly:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// Collector fetches and cleans the bar series the engine consumes.
type Collector struct {
	Fetcher    Fetcher
	Retries    int
	RetryDelay time.Duration
	Logger     zerolog.Logger

	now func() time.Time
}

// NewCollector creates a new Collector. retries below one mean a single attempt.
func NewCollector(fetcher Fetcher, retries int, retryDelay time.Duration, logger zerolog.Logger) *Collector {
	if retries < 1 {
		retries = 1
	}
	return &Collector{
		Fetcher:    fetcher,
		Retries:    retries,
		RetryDelay: retryDelay,
		Logger:     logger.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
		now:        time.Now,
	}
}

// Collect fetches the lookback window of a (symbol, timeframe) pair, retrying
// transient failures, and returns the cleaned series. It does not enforce a
// minimum length.
func (c *Collector) Collect(ctx context.Context, symbol string, tf model.Timeframe) (model.Series, error) {
	end := c.now().UTC()
	start := end.Add(-tf.Lookback())

	var bars []model.Bar
	var err error
	for attempt := 1; attempt <= c.Retries; attempt++ {
		bars, err = c.Fetcher.FetchBars(ctx, symbol, tf, start, end)
		if err == nil {
			break
		}
		c.Logger.Warn().Err(err).Str("symbol", symbol).Str("timeframe", tf.String()).
			Int("attempt", attempt).Msg("fetch failed")
		if attempt == c.Retries {
			break
		}

		select {
		case <-ctx.Done():
			return model.Series{}, fmt.Errorf("fetch %s %s: %w", symbol, tf, ctx.Err())
		case <-time.After(c.RetryDelay):
		}
	}
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch %s %s after %d attempts: %w", symbol, tf, c.Retries, err)
	}

	cleaned, dropped := Clean(bars)
	if len(dropped) > 0 {
		c.Logger.Warn().Str("symbol", symbol).Str("timeframe", tf.String()).
			Int("dropped", len(dropped)).Msg("dropped malformed bars")
		if e := c.Logger.Debug(); e.Enabled() {
			e.Str("symbol", symbol).Msgf("malformed bars: %s", spew.Sdump(dropped))
		}
	}

	return model.Series{
		Symbol:    symbol,
		Timeframe: tf,
		Bars:      cleaned,
		FetchedAt: end,
	}, nil
}

// Clean drops bars with a missing time or a non-finite value, sorts the rest
// in ascending time and keeps the last bar of each duplicated timestamp.
// The input is not modified.
func Clean(bars []model.Bar) (cleaned, dropped []model.Bar) {
	cleaned = make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Time.IsZero() || !finite(b.Open, b.High, b.Low, b.Close, b.Volume) {
			dropped = append(dropped, b)
			continue
		}
		cleaned = append(cleaned, b)
	}

	sort.SliceStable(cleaned, func(i, j int) bool { return cleaned[i].Time.Before(cleaned[j].Time) })

	out := cleaned[:0]
	for _, b := range cleaned {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			dropped = append(dropped, out[n-1])
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out, dropped
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

package calculator

import (
	"math"
	"testing"
	"time"

	"TrendSentinel/internal/model"
)

// goldenBars is a hand-built 40-bar series; reference values for it were
// computed independently and are asserted to 1e-9 relative error.
func goldenBars() []model.Bar {
	closes := []float64{101.2, 100.4, 101.9, 102.5, 100.5, 101.4, 101.8, 101.5, 103.2, 102.6,
		103.7, 102.3, 103.1, 103.4, 102.5, 104.6, 104.1, 104.7, 103.5, 104.5,
		103.8, 105.2, 104.9, 105.4, 103.8, 104.7, 105.9, 105.5, 106.2, 105.1,
		106.9, 106.7, 107.1, 106.2, 107.5, 106.9, 107.9, 107.6, 109.1, 109.7}
	highs := []float64{101.7, 101.15, 102.9, 103.0, 101.25, 102.4, 102.3, 102.25, 104.2, 103.1,
		104.45, 103.3, 103.6, 104.15, 103.5, 105.1, 104.85, 105.7, 104.0, 105.25,
		104.8, 105.7, 105.65, 106.4, 104.3, 105.45, 106.9, 106.0, 106.95, 106.1,
		107.4, 107.45, 108.1, 106.7, 108.25, 107.9, 108.4, 108.35, 110.1, 110.2}
	lows := []float64{100.75, 99.75, 101.05, 101.45, 100.05, 100.75, 100.95, 100.45, 102.75, 101.95,
		102.85, 101.25, 102.65, 102.75, 101.65, 103.55, 103.65, 104.05, 102.65, 103.45,
		103.35, 104.55, 104.05, 104.35, 103.35, 104.05, 105.05, 104.45, 105.75, 104.45,
		106.05, 105.65, 106.65, 105.55, 106.65, 105.85, 107.45, 106.95, 108.25, 108.65}

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i := range closes {
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   closes[i] - 0.3,
			High:   highs[i],
			Low:    lows[i],
			Close:  closes[i],
			Volume: 1000,
		}
	}
	return bars
}

func assertRelClose(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.IsNaN(got) {
		t.Errorf("%s: got NaN, want %.12f", label, want)
		return
	}
	if diff := math.Abs(got-want) / math.Abs(want); diff > 1e-9 {
		t.Errorf("%s: got %.12f, want %.12f (rel diff=%g)", label, got, want, diff)
	}
}

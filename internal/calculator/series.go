package calculator

import (
	"math"

	"TrendSentinel/internal/model"
)

// ValidateBars checks that every bar is finite and that timestamps are strictly
// ascending. Violations are MalformedInput errors.
func ValidateBars(bars []model.Bar) error {
	for i, b := range bars {
		if b.Time.IsZero() {
			return model.NewEngineError(model.MalformedInput, "validate", "bar %d has no timestamp", i)
		}
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close}, {"volume", b.Volume},
		} {
			if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
				return model.NewEngineError(model.MalformedInput, "validate", "bar %d has non-finite %s", i, f.name)
			}
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return model.NewEngineError(model.MalformedInput, "validate",
				"bar %d timestamp %s is not after %s", i, b.Time.Format("2006-01-02 15:04"), bars[i-1].Time.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// Closes extracts the close prices.
func Closes(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high prices.
func Highs(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low prices.
func Lows(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

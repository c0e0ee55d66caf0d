package calculator

import "math"

// DefaultLengthAdjustment is the extra term added to the EMA length when
// deriving alpha. It is intentional and must not be "corrected" to a standard EMA.
const DefaultLengthAdjustment = 19

// RMA computes Wilder's running moving average with alpha = 1/length.
// The output is seeded with the first defined input; earlier samples stay undefined.
// A missing input carries the previous output forward unchanged.
func RMA(series []float64, length int) []float64 {
	out := undefinedSeries(len(series))
	if length <= 0 {
		return out
	}

	start := firstDefined(series)
	if start < 0 {
		return out
	}

	alpha := 1 / float64(length)
	out[start] = series[start]
	for i := start + 1; i < len(series); i++ {
		if math.IsNaN(series[i]) {
			out[i] = out[i-1]
			continue
		}
		out[i] = alpha*series[i] + (1-alpha)*out[i-1]
	}
	return out
}

// AdjustedEMA computes an exponential moving average with
// alpha = 2/(length+adjustment), seeded with series[0]. Whenever the previous
// output is undefined the current input is taken as is.
func AdjustedEMA(series []float64, length, adjustment int) []float64 {
	out := undefinedSeries(len(series))
	if length+adjustment <= 0 || firstDefined(series) < 0 {
		return out
	}

	alpha := 2 / float64(length+adjustment)
	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		if math.IsNaN(out[i-1]) {
			out[i] = series[i]
			continue
		}
		out[i] = alpha*series[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Defined reports whether v is a computed sample.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// AllUndefined reports whether the series carries no computed sample.
func AllUndefined(series []float64) bool {
	return firstDefined(series) < 0
}

func firstDefined(series []float64) int {
	for i, v := range series {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

package calculator

import (
	"math"

	"TrendSentinel/internal/model"

	"github.com/markcheno/go-talib"
)

// DMI holds the directional movement series of one bar series.
type DMI struct {
	PlusDI  []float64
	MinusDI []float64
	ADX     []float64
	// TRSmooth is the smoothed true range; a zero sample means the DI ratios
	// at that index were substituted rather than computed.
	TRSmooth []float64
}

// Degenerate reports whether the DI values at index i come from a zero true range.
func (d *DMI) Degenerate(i int) bool {
	if i < 0 || i >= len(d.TRSmooth) {
		return false
	}
	return d.TRSmooth[i] == 0
}

// CalculateDMI computes +DI, -DI and ADX using Wilder smoothing.
// The series must hold at least length+smoothing bars.
func CalculateDMI(bars []model.Bar, length, smoothing int) (*DMI, error) {
	if length <= 0 || smoothing <= 0 {
		return nil, model.NewEngineError(model.MalformedInput, "dmi", "length %d and smoothing %d must be positive", length, smoothing)
	}
	if len(bars) < length+smoothing {
		return nil, model.NewEngineError(model.InsufficientData, "dmi", "need %d bars, got %d", length+smoothing, len(bars))
	}
	if err := ValidateBars(bars); err != nil {
		return nil, err
	}

	highs := Highs(bars)
	lows := Lows(bars)
	closes := Closes(bars)
	n := len(bars)

	// The first bar has no predecessor, so none of its moves are defined.
	trueRange := talib.TRange(highs, lows, closes)
	trueRange[0] = math.NaN()

	plusDM := undefinedSeries(n)
	minusDM := undefinedSeries(n)
	for i := 1; i < n; i++ {
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]

		plusDM[i] = 0
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		minusDM[i] = 0
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	trSmooth := RMA(trueRange, length)
	plusSmooth := RMA(plusDM, length)
	minusSmooth := RMA(minusDM, length)

	plusDI := undefinedSeries(n)
	minusDI := undefinedSeries(n)
	dx := undefinedSeries(n)
	for i := 0; i < n; i++ {
		tr := trSmooth[i]
		switch {
		case math.IsNaN(tr):
			continue
		case tr == 0:
			plusDI[i], minusDI[i] = 0, 0
		default:
			plusDI[i] = 100 * plusSmooth[i] / tr
			minusDI[i] = 100 * minusSmooth[i] / tr
		}

		sum := plusDI[i] + minusDI[i]
		if sum == 0 {
			sum = 1
		}
		dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
	}

	return &DMI{
		PlusDI:   plusDI,
		MinusDI:  minusDI,
		ADX:      RMA(dx, smoothing),
		TRSmooth: trSmooth,
	}, nil
}

package strategy

import (
	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

// ClassifyGet scores the directional movement at the last bar.
// A DI crossover scores ±4; otherwise the dominant DI gives ±4 when ADX is
// rising and ±3 when it is not.
func ClassifyGet(plusDI, minusDI, adx []float64) model.StateResult {
	last := len(plusDI) - 1
	if !lastTwoDefined(plusDI, last) || !lastTwoDefined(minusDI, last) || !lastTwoDefined(adx, last) {
		return model.UnavailableState()
	}

	switch {
	case calculator.CrossOver(plusDI, minusDI, last):
		return state(4, "Bullish++")
	case calculator.CrossUnder(plusDI, minusDI, last):
		return state(-4, "Bearish++")
	}

	rising := adx[last] > adx[last-1]
	if plusDI[last] > minusDI[last] {
		if rising {
			return state(4, "Bullish+")
		}
		return state(3, "Bullish-")
	}
	if rising {
		return state(-4, "Bearish+")
	}
	return state(-3, "Bearish-")
}

// ClassifySet scores the MACD line against the zero line.
func ClassifySet(macd []float64) model.StateResult {
	return classifyZeroLine("Set", macd)
}

// ClassifyGo scores the signal line against the zero line.
func ClassifyGo(signal []float64) model.StateResult {
	return classifyZeroLine("Go", signal)
}

// classifyZeroLine scores ±2 on a zero-line cross (labelled with name),
// otherwise ±2 when moving away from zero and ±1 when moving toward it.
func classifyZeroLine(name string, s []float64) model.StateResult {
	last := len(s) - 1
	if !lastTwoDefined(s, last) {
		return model.UnavailableState()
	}

	switch {
	case calculator.CrossOverZero(s, last):
		return state(2, name+" Bullish++")
	case calculator.CrossUnderZero(s, last):
		return state(-2, name+" Bearish++")
	}

	if s[last] > 0 {
		if s[last] > s[last-1] {
			return state(2, "Bullish+")
		}
		return state(1, "Bullish-")
	}
	if s[last] < s[last-1] {
		return state(-2, "Bearish+")
	}
	return state(-1, "Bearish-")
}

func state(score int, label string) model.StateResult {
	return model.StateResult{
		Score:     score,
		Label:     label,
		Polarity:  model.PolarityOf(float64(score)),
		Available: true,
	}
}

func lastTwoDefined(s []float64, last int) bool {
	if last < 1 || last >= len(s) {
		return false
	}
	return calculator.Defined(s[last]) && calculator.Defined(s[last-1])
}

package model

// IndicatorSet holds the oscillator series derived from one bar series.
// Every slice is aligned 1:1 with the source bars; NaN marks an undefined sample.
type IndicatorSet struct {
	PlusDI  []float64
	MinusDI []float64
	ADX     []float64
	MACD    []float64
	Signal  []float64
	// TRSmooth is zero where the DI values were substituted for a flat range.
	TRSmooth []float64
}

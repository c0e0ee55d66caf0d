package strategy

import (
	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

// Params holds every tunable constant of the engine.
type Params struct {
	DMILength        int
	DMISmoothing     int
	FastLength       int
	SlowLength       int
	SignalLength     int
	LengthAdjustment int
	// MinBars is the shortest series that will be classified.
	MinBars       int
	BuyThreshold  float64
	SellThreshold float64
	// Weights of each timeframe trend in the total trend.
	Weights map[model.Timeframe]float64
}

// DefaultParams returns the charting defaults: DMI 14/14, MACD 12/26/9 with
// length adjustment 19, 30 bars minimum, thresholds ±5 and weights 2/2/1.
func DefaultParams() Params {
	return Params{
		DMILength:        14,
		DMISmoothing:     14,
		FastLength:       12,
		SlowLength:       26,
		SignalLength:     9,
		LengthAdjustment: calculator.DefaultLengthAdjustment,
		MinBars:          30,
		BuyThreshold:     5,
		SellThreshold:    -5,
		Weights: map[model.Timeframe]float64{
			model.Weekly: 2,
			model.Daily:  2,
			model.Hourly: 1,
		},
	}
}

// Validate rejects parameter sets the engine cannot run with.
func (p Params) Validate() error {
	const op = "params"
	switch {
	case p.DMILength <= 0 || p.DMISmoothing <= 0:
		return model.NewEngineError(model.MalformedInput, op, "dmi length %d and smoothing %d must be positive", p.DMILength, p.DMISmoothing)
	case p.FastLength <= 0 || p.SlowLength <= 0 || p.SignalLength <= 0:
		return model.NewEngineError(model.MalformedInput, op, "macd lengths %d/%d/%d must be positive", p.FastLength, p.SlowLength, p.SignalLength)
	case min(p.FastLength, p.SlowLength, p.SignalLength)+p.LengthAdjustment <= 0:
		return model.NewEngineError(model.MalformedInput, op, "length adjustment %d leaves a non-positive ema period", p.LengthAdjustment)
	case p.MinBars < 2:
		return model.NewEngineError(model.MalformedInput, op, "min bars %d must be at least 2", p.MinBars)
	case p.SellThreshold >= p.BuyThreshold:
		return model.NewEngineError(model.MalformedInput, op, "sell threshold %v must be below buy threshold %v", p.SellThreshold, p.BuyThreshold)
	}

	var total float64
	for tf, w := range p.Weights {
		if _, err := model.ParseTimeframe(string(tf)); err != nil {
			return model.NewEngineError(model.MalformedInput, op, "weight for unknown timeframe %q", tf)
		}
		if w < 0 {
			return model.NewEngineError(model.MalformedInput, op, "weight for %s must not be negative", tf)
		}
		total += w
	}
	if total <= 0 {
		return model.NewEngineError(model.MalformedInput, op, "timeframe weights must sum to a positive value")
	}
	return nil
}

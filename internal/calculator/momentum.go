package calculator

import (
	"TrendSentinel/internal/model"

	"github.com/markcheno/go-talib"
)

// Momentum holds the MACD variant built on AdjustedEMA.
type Momentum struct {
	MACD   []float64
	Signal []float64
}

// CalculateMomentum computes macd = EMA(close, fast) - EMA(close, slow) and
// signal = EMA(macd, signal), every EMA using the same length adjustment.
func CalculateMomentum(closes []float64, fastLength, slowLength, signalLength, adjustment int) (*Momentum, error) {
	if fastLength <= 0 || slowLength <= 0 || signalLength <= 0 {
		return nil, model.NewEngineError(model.MalformedInput, "momentum",
			"lengths %d/%d/%d must be positive", fastLength, slowLength, signalLength)
	}
	if len(closes) < 2 {
		return nil, model.NewEngineError(model.InsufficientData, "momentum", "need 2 closes, got %d", len(closes))
	}

	fast := AdjustedEMA(closes, fastLength, adjustment)
	slow := AdjustedEMA(closes, slowLength, adjustment)
	macd := talib.Sub(fast, slow)

	return &Momentum{
		MACD:   macd,
		Signal: AdjustedEMA(macd, signalLength, adjustment),
	}, nil
}

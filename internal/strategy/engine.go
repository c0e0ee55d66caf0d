package strategy

import (
	"errors"
	"fmt"
	"math"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

// ComputeIndicators derives the DMI and momentum series of bars.
// An indicator whose warm-up exceeds the available history is returned all
// undefined; malformed bars are an error.
func ComputeIndicators(bars []model.Bar, p Params) (*model.IndicatorSet, error) {
	set := &model.IndicatorSet{}

	dmi, err := calculator.CalculateDMI(bars, p.DMILength, p.DMISmoothing)
	switch {
	case errors.Is(err, model.ErrInsufficientData):
		set.PlusDI = undefined(len(bars))
		set.MinusDI = undefined(len(bars))
		set.ADX = undefined(len(bars))
		set.TRSmooth = undefined(len(bars))
	case err != nil:
		return nil, err
	default:
		set.PlusDI, set.MinusDI, set.ADX, set.TRSmooth = dmi.PlusDI, dmi.MinusDI, dmi.ADX, dmi.TRSmooth
	}

	mom, err := calculator.CalculateMomentum(calculator.Closes(bars), p.FastLength, p.SlowLength, p.SignalLength, p.LengthAdjustment)
	switch {
	case errors.Is(err, model.ErrInsufficientData):
		set.MACD = undefined(len(bars))
		set.Signal = undefined(len(bars))
	case err != nil:
		return nil, err
	default:
		set.MACD, set.Signal = mom.MACD, mom.Signal
	}

	return set, nil
}

// AnalyzeSeries classifies one (symbol, timeframe) series.
// Series shorter than p.MinBars yield the all "N/A" analysis without error.
// Malformed bars or parameters return the "N/A" analysis and a MalformedInput error.
func AnalyzeSeries(bars []model.Bar, p Params) (model.TimeframeAnalysis, error) {
	if err := p.Validate(); err != nil {
		return model.UnavailableAnalysis(), err
	}
	if len(bars) < p.MinBars {
		return model.UnavailableAnalysis(), nil
	}
	if err := calculator.ValidateBars(bars); err != nil {
		return model.UnavailableAnalysis(), err
	}

	set, err := ComputeIndicators(bars, p)
	if err != nil {
		return model.UnavailableAnalysis(), err
	}
	return Classify(set, p), nil
}

// Classify turns an indicator set into Get, Set and Go states and their trend.
// Get is unavailable where the DI values of the last two bars were substituted
// for a flat true range.
func Classify(set *model.IndicatorSet, p Params) model.TimeframeAnalysis {
	a := model.TimeframeAnalysis{
		Get: ClassifyGet(set.PlusDI, set.MinusDI, set.ADX),
		Set: ClassifySet(set.MACD),
		Go:  ClassifyGo(set.Signal),
	}
	last := len(set.TRSmooth) - 1
	for _, i := range []int{last - 1, last} {
		if flatRange(set.TRSmooth, i) {
			a.Get = model.UnavailableState()
			a.Degenerate = model.NewEngineError(model.DegenerateArithmetic, "dmi", "zero smoothed true range at bar %d", i)
			break
		}
	}
	a.Trend = TimeframeTrend(a.Get, a.Set, a.Go, p)
	return a
}

// Combine assembles per-timeframe analyses into a SymbolAnalysis with its
// weighted total trend. Missing timeframes are filled with "N/A".
func Combine(symbol string, analyses map[model.Timeframe]model.TimeframeAnalysis, p Params) model.SymbolAnalysis {
	out := model.SymbolAnalysis{
		Symbol:     symbol,
		Timeframes: make(map[model.Timeframe]model.TimeframeAnalysis, len(model.Timeframes)),
	}
	trends := make(map[model.Timeframe]model.TrendResult, len(model.Timeframes))
	for _, tf := range model.Timeframes {
		a, ok := analyses[tf]
		if !ok {
			a = model.UnavailableAnalysis()
		}
		out.Timeframes[tf] = a
		trends[tf] = a.Trend
	}
	out.TotalTrend = TotalTrend(trends, p)
	return out
}

// AnalyzeSymbol classifies every timeframe of one symbol. A malformed
// timeframe is reported in the joined error while the others still complete.
func AnalyzeSymbol(symbol string, series map[model.Timeframe][]model.Bar, p Params) (model.SymbolAnalysis, error) {
	analyses := make(map[model.Timeframe]model.TimeframeAnalysis, len(model.Timeframes))
	var errs []error
	for _, tf := range model.Timeframes {
		a, err := AnalyzeSeries(series[tf], p)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", symbol, tf, err))
		}
		analyses[tf] = a
	}
	return Combine(symbol, analyses, p), errors.Join(errs...)
}

func flatRange(trSmooth []float64, i int) bool {
	return i >= 0 && i < len(trSmooth) && trSmooth[i] == 0
}

func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

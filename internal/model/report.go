package model

import "time"

// Failure records a (symbol, timeframe) unit of work that could not be analysed.
type Failure struct {
	Symbol    string
	Timeframe Timeframe
	Reason    string
}

// Report is the output of one scan over a list of symbols.
type Report struct {
	RunID       string
	Portfolio   string
	StartedAt   time.Time
	FinishedAt  time.Time
	Symbols     []SymbolAnalysis
	Transitions []Transition
	Failures    []Failure
}

// Counts returns how many symbols ended in each total trend action.
// Unavailable totals are not counted.
func (r *Report) Counts() (buy, sell, hold int) {
	for _, s := range r.Symbols {
		if !s.TotalTrend.Available {
			continue
		}
		switch s.TotalTrend.Action {
		case Buy:
			buy++
		case Sell:
			sell++
		default:
			hold++
		}
	}
	return buy, sell, hold
}

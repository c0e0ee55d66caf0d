package model

import "time"

// Polarity is the tri-state direction of a classification.
type Polarity int

const (
	Neutral Polarity = iota
	Positive
	Negative
)

// String stringifies the polarity.
func (p Polarity) String() string {
	switch p {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// PolarityOf maps the sign of a score to a polarity.
func PolarityOf(score float64) Polarity {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}

// UnavailableLabel is the label carried by results that could not be computed.
const UnavailableLabel = "N/A"

// StateResult is the outcome of one sub-classifier (Get, Set or Go).
type StateResult struct {
	Score     int
	Label     string
	Polarity  Polarity
	Available bool
}

// UnavailableState returns the "N/A" sentinel. It is distinguishable from a
// genuine zero score through Available.
func UnavailableState() StateResult {
	return StateResult{Label: UnavailableLabel, Polarity: Neutral}
}

// Action is the trend recommendation derived from a score.
type Action int

const (
	Hold Action = iota
	Buy
	Sell
)

// String stringifies the action.
func (a Action) String() string {
	switch a {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return "Hold"
	}
}

// TrendResult is a per-timeframe or cross-timeframe trend classification.
// Score carries the numeric value rendered in Label so consumers never parse text.
type TrendResult struct {
	Action    Action
	Score     float64
	Label     string
	Polarity  Polarity
	Available bool
}

// UnavailableTrend returns the "N/A" trend sentinel.
func UnavailableTrend() TrendResult {
	return TrendResult{Action: Hold, Label: UnavailableLabel, Polarity: Neutral}
}

// TimeframeAnalysis groups the classifications for one (symbol, timeframe).
type TimeframeAnalysis struct {
	Get   StateResult
	Set   StateResult
	Go    StateResult
	Trend TrendResult

	// Degenerate is a DegenerateArithmetic error when Get was withheld
	// because the smoothed true range of the last two bars hit zero.
	Degenerate error
}

// UnavailableAnalysis returns an analysis whose four fields are all "N/A".
func UnavailableAnalysis() TimeframeAnalysis {
	return TimeframeAnalysis{
		Get:   UnavailableState(),
		Set:   UnavailableState(),
		Go:    UnavailableState(),
		Trend: UnavailableTrend(),
	}
}

// SymbolAnalysis holds every timeframe analysis of a symbol and the weighted total.
type SymbolAnalysis struct {
	Symbol     string
	Timeframes map[Timeframe]TimeframeAnalysis
	TotalTrend TrendResult
}

// Verdict is the last known total trend of a symbol, kept by an external store
// so consecutive scans can detect Buy/Sell transitions.
type Verdict struct {
	Action    Action    `json:"action"`
	Score     float64   `json:"score"`
	Label     string    `json:"label"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transition is an edge-triggered change of a symbol's total trend into Buy or Sell.
type Transition struct {
	Symbol string
	From   Action
	To     Action
	Score  float64
	Label  string
	At     time.Time
}

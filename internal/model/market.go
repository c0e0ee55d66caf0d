package model

import (
	"fmt"
	"strings"
	"time"
)

// Bar represents a single OHLCV sample for a fixed interval.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Timeframe identifies a bar interval. The value is the provider interval code.
type Timeframe string

const (
	Weekly Timeframe = "1wk"
	Daily  Timeframe = "1d"
	Hourly Timeframe = "1h"
)

// Timeframes lists the analysed timeframes in display order.
var Timeframes = []Timeframe{Weekly, Daily, Hourly}

// String returns the display name of the timeframe.
func (tf Timeframe) String() string {
	switch tf {
	case Weekly:
		return "Weekly"
	case Daily:
		return "Daily"
	case Hourly:
		return "Hourly"
	default:
		return "Unknown"
	}
}

// Lookback returns how much history is requested for the timeframe.
func (tf Timeframe) Lookback() time.Duration {
	switch tf {
	case Weekly:
		return 365 * 24 * time.Hour
	case Daily:
		return 100 * 24 * time.Hour
	case Hourly:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// ParseTimeframe accepts either the interval code ("1d") or the display name ("daily").
func ParseTimeframe(s string) (Timeframe, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1wk", "weekly":
		return Weekly, nil
	case "1d", "daily":
		return Daily, nil
	case "1h", "hourly":
		return Hourly, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
}

// Series is an ordered, time-ascending run of bars for one (symbol, timeframe) pair.
type Series struct {
	Symbol    string
	Timeframe Timeframe
	Bars      []Bar
	FetchedAt time.Time
}

package recorder

import (
	"time"

	"TrendSentinel/internal/model"
)

// HistoryEntry is one recorded total trend of a symbol.
type HistoryEntry struct {
	RunID     string
	Portfolio string
	At        time.Time
	Action    string
	Score     float64
	Label     string
	Available bool
}

// Recorder persists scan history for later analysis.
type Recorder interface {
	RecordScan(report *model.Report) error
	// History returns the latest recorded total trends of symbol, newest first.
	History(symbol string, limit int) ([]HistoryEntry, error)
	Close() error
}

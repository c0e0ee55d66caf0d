package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"TrendSentinel/internal/model"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// Ensure the SQLiteRecorder implements the Recorder interface.
var _ Recorder = (*SQLiteRecorder)(nil)

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets dashboards read while scans write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			run_id      TEXT PRIMARY KEY,
			portfolio   TEXT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			symbols     INTEGER,
			buy_count   INTEGER,
			sell_count  INTEGER,
			hold_count  INTEGER,
			failures    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_started ON scans(started_at)`,

		`CREATE TABLE IF NOT EXISTS timeframe_states (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			timeframe   TEXT NOT NULL,
			get_score   INTEGER,
			get_label   TEXT,
			set_score   INTEGER,
			set_label   TEXT,
			go_score    INTEGER,
			go_label    TEXT,
			trend_score REAL,
			trend_label TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_states_run ON timeframe_states(run_id)`,

		`CREATE TABLE IF NOT EXISTS total_trends (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			portfolio TEXT,
			symbol    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			action    TEXT,
			score     REAL,
			label     TEXT,
			available INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_totals_symbol_ts ON total_trends(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS transitions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			from_action TEXT,
			to_action   TEXT,
			score       REAL,
			label       TEXT,
			timestamp   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transitions_ts ON transitions(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordScan writes a report and all its rows in one transaction.
func (r *SQLiteRecorder) RecordScan(report *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	buy, sell, hold := report.Counts()
	_, err = tx.Exec(`INSERT INTO scans
		(run_id, portfolio, started_at, finished_at, symbols, buy_count, sell_count, hold_count, failures)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		report.RunID, report.Portfolio, report.StartedAt.Unix(), report.FinishedAt.Unix(),
		len(report.Symbols), buy, sell, hold, len(report.Failures),
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	for _, sym := range report.Symbols {
		for _, tf := range model.Timeframes {
			a, ok := sym.Timeframes[tf]
			if !ok {
				continue
			}
			_, err = tx.Exec(`INSERT INTO timeframe_states
				(run_id, symbol, timeframe, get_score, get_label, set_score, set_label,
				 go_score, go_label, trend_score, trend_label)
				VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
				report.RunID, sym.Symbol, string(tf),
				stateScore(a.Get), a.Get.Label, stateScore(a.Set), a.Set.Label,
				stateScore(a.Go), a.Go.Label, trendScore(a.Trend), a.Trend.Label,
			)
			if err != nil {
				return fmt.Errorf("insert timeframe state: %w", err)
			}
		}

		_, err = tx.Exec(`INSERT INTO total_trends
			(run_id, portfolio, symbol, timestamp, action, score, label, available)
			VALUES (?,?,?,?,?,?,?,?)`,
			report.RunID, report.Portfolio, sym.Symbol, report.FinishedAt.Unix(),
			sym.TotalTrend.Action.String(), trendScore(sym.TotalTrend), sym.TotalTrend.Label,
			sym.TotalTrend.Available,
		)
		if err != nil {
			return fmt.Errorf("insert total trend: %w", err)
		}
	}

	for _, tr := range report.Transitions {
		_, err = tx.Exec(`INSERT INTO transitions
			(run_id, symbol, from_action, to_action, score, label, timestamp)
			VALUES (?,?,?,?,?,?,?)`,
			report.RunID, tr.Symbol, tr.From.String(), tr.To.String(), tr.Score, tr.Label, tr.At.Unix(),
		)
		if err != nil {
			return fmt.Errorf("insert transition: %w", err)
		}
	}

	return tx.Commit()
}

// History returns the latest recorded total trends of symbol, newest first.
func (r *SQLiteRecorder) History(symbol string, limit int) ([]HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT run_id, portfolio, timestamp, action, score, label, available
		FROM total_trends WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e     HistoryEntry
			ts    int64
			score sql.NullFloat64
		)
		if err := rows.Scan(&e.RunID, &e.Portfolio, &ts, &e.Action, &score, &e.Label, &e.Available); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.At = time.Unix(ts, 0).UTC()
		e.Score = score.Float64
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

// stateScore stores unavailable states as NULL so they never read back as zero.
func stateScore(s model.StateResult) interface{} {
	if !s.Available {
		return nil
	}
	return s.Score
}

func trendScore(t model.TrendResult) interface{} {
	if !t.Available {
		return nil
	}
	return t.Score
}

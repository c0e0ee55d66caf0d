package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/render"
	"TrendSentinel/internal/scanner"
	"TrendSentinel/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// historyLimit is the number of recorded trends returned by /history.
const historyLimit = 10

// ErrScanRunning is returned when a scan is requested while another runs.
var ErrScanRunning = errors.New("a scan is already running")

// Scheduler runs periodic portfolio scans and answers bot commands.
type Scheduler struct {
	Cron       *cron.Cron
	Scanner    *scanner.Scanner
	Store      store.Store
	Notifier   notifier.Notifier
	Recorder   recorder.Recorder
	Health     *metrics.HealthStatus
	Portfolios map[string][]string
	Portfolio  string
	// SendSummary also sends the counts of every scheduled scan.
	SendSummary bool
	Ctx         context.Context

	logger  zerolog.Logger
	running sync.Mutex
}

// NewScheduler creates a new Scheduler scanning portfolio by default.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, st store.Store, n notifier.Notifier, rec recorder.Recorder,
	health *metrics.HealthStatus, portfolios map[string][]string, portfolio string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Scanner:    sc,
		Store:      st,
		Notifier:   n,
		Recorder:   rec,
		Health:     health,
		Portfolios: portfolios,
		Portfolio:  portfolio,
		Ctx:        ctx,
		logger:     logger.With().Str("component", "scheduler").Logger(),
	}
}

// Register registers the periodic scan of the default portfolio.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes the scheduled scan immediately.
func (s *Scheduler) RunNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	report, err := s.RunScan(s.Ctx, s.Portfolio)
	if err != nil {
		s.logger.Error().Err(err).Str("portfolio", s.Portfolio).Msg("scheduled scan")
	}
	if report == nil || !s.SendSummary {
		return
	}
	if err := s.Notifier.NotifySummary(s.Ctx, report); err != nil {
		s.logger.Error().Err(err).Str("run_id", report.RunID).Msg("notify summary")
	}
}

// RunScan scans a portfolio, records the report, alerts on transitions and
// updates the health status. Only one scan runs at a time.
func (s *Scheduler) RunScan(ctx context.Context, portfolio string) (*model.Report, error) {
	symbols, ok := s.Portfolios[portfolio]
	if !ok {
		return nil, fmt.Errorf("unknown portfolio %q", portfolio)
	}
	if !s.running.TryLock() {
		return nil, ErrScanRunning
	}
	defer s.running.Unlock()

	report, err := s.Scanner.Scan(ctx, portfolio, symbols, s.Store)
	s.Health.SetScan(report.RunID, report.FinishedAt, err)
	if err != nil {
		s.logger.Warn().Err(err).Str("run_id", report.RunID).Msg("scan completed with errors")
	}

	if recErr := s.Recorder.RecordScan(report); recErr != nil {
		s.logger.Error().Err(recErr).Str("run_id", report.RunID).Msg("record scan")
	}
	if nErr := s.Notifier.NotifyTransitions(ctx, report); nErr != nil {
		s.logger.Error().Err(nErr).Str("run_id", report.RunID).Msg("notify transitions")
	}

	s.logger.Info().Str("run_id", report.RunID).Msg(render.Summary(report))
	return report, err
}

// HandleCommand processes a bot command and returns the reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command, args string) string {
	switch command {
	case "scan":
		portfolio := s.Portfolio
		if args != "" {
			portfolio = s.resolvePortfolio(args)
		}
		report, err := s.RunScan(ctx, portfolio)
		if report == nil {
			return fmt.Sprintf("❌ Scan failed: %s", html.EscapeString(err.Error()))
		}
		return notifier.FormatSummary(report)
	case "portfolios":
		return notifier.FormatPortfolios(s.Portfolios)
	case "symbol":
		symbol := strings.ToUpper(args)
		if symbol == "" {
			return "Usage: /symbol &lt;ticker&gt;"
		}
		a, failures := s.Scanner.AnalyzeOne(ctx, symbol)
		reply := notifier.FormatSymbol(a)
		if len(failures) > 0 {
			reply += fmt.Sprintf("\n⚠️ %d timeframe(s) failed to load", len(failures))
		}
		return reply
	case "history":
		symbol := strings.ToUpper(args)
		if symbol == "" {
			return "Usage: /history &lt;ticker&gt;"
		}
		entries, err := s.Recorder.History(symbol, historyLimit)
		if err != nil {
			s.logger.Error().Err(err).Str("symbol", symbol).Msg("read history")
			return fmt.Sprintf("❌ History unavailable: %s", html.EscapeString(err.Error()))
		}
		return notifier.FormatHistory(symbol, entries)
	default:
		return notifier.FormatHelp()
	}
}

// resolvePortfolio matches a portfolio name case-insensitively.
func (s *Scheduler) resolvePortfolio(name string) string {
	for p := range s.Portfolios {
		if strings.EqualFold(p, name) {
			return p
		}
	}
	return name
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/logger"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/render"
	"TrendSentinel/internal/scanner"
	"TrendSentinel/internal/scheduler"
	"TrendSentinel/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVarP(&cfgPath, "config", "c", cfgPath, "path to the YAML config file")
	once := flag.Bool("once", false, "scan once, print the dashboard table and exit")
	portfolio := flag.String("portfolio", "", "portfolio to scan (defaults to scan.portfolio)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *portfolio != "" {
		cfg.Scan.Portfolio = *portfolio
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	params, err := cfg.EngineParams()
	if err != nil {
		log.Fatal().Err(err).Msg("engine params")
	}
	log.Info().Str("config", cfgPath).Str("portfolio", cfg.Scan.Portfolio).Msg("TrendSentinel starting")

	// Init fetcher
	fetcher := newFetcher(cfg)
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")
	col := collector.NewCollector(fetcher, cfg.DataSource.Retries, cfg.DataSource.RetryDelay, log)

	// Init verdict store
	st, closeStore, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("kind", cfg.Store.Kind).Msg("init verdict store")
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)
	sc := scanner.NewScanner(col, params, cfg.Scan.Workers, m, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *once {
		code := runOnce(ctx, sc, st, cfg, log)
		cancel()
		closeStore()
		os.Exit(code)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init Telegram notifier
	var n notifier.Notifier = notifier.NoopNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		if err != nil {
			log.Error().Err(err).Msg("init telegram notifier, alerts disabled")
		} else {
			n = tn
		}
	} else {
		log.Warn().Msg("telegram not configured, alerts disabled")
	}

	health := metrics.NewHealthStatus()
	srv := metrics.NewServer(cfg.Metrics.ListenAddr, reg, health, log)
	srv.Start()

	sched := scheduler.NewScheduler(ctx, sc, st, n, rec, health, cfg.Portfolios, cfg.Scan.Portfolio, log)
	sched.SendSummary = cfg.Telegram.Summary
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()

	if tn != nil {
		tn.ListenForCommands(ctx, sched.HandleCommand)
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, scanning now")
		go sched.RunNow()
	}

	log.Info().Str("cron", cfg.Schedule.ScanCron).Msg("TrendSentinel is running, press Ctrl+C to stop")
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping")
	sched.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("stop metrics server")
	}
	log.Info().Msg("TrendSentinel stopped")
}

// runOnce scans the configured portfolio, prints the dashboard and returns the exit code.
func runOnce(ctx context.Context, sc *scanner.Scanner, st store.Store, cfg *config.Config, log zerolog.Logger) int {
	report, err := sc.Scan(ctx, cfg.Scan.Portfolio, cfg.Portfolios[cfg.Scan.Portfolio], st)
	fmt.Println(render.Report(report))
	if err != nil {
		log.Error().Err(err).Msg("scan")
		return 1
	}
	return 0
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderREST:
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy, ds.Timeout)
	case config.ProviderMock:
		return &collector.MockFetcher{}
	default:
		return collector.NewYahooFetcher(ds.BaseURL, cfg.Proxy, ds.Timeout)
	}
}

// newStore opens the configured verdict store and returns its close function.
func newStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Kind {
	case config.StoreMemory:
		return store.NewMemoryStore(), func() {}, nil
	case config.StoreRedis:
		rs, err := store.NewRedisStore(store.RedisConfig{Addr: cfg.Store.RedisAddr, Prefix: cfg.Store.RedisPrefix})
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { rs.Close() }, nil
	default:
		fs, err := store.OpenFileStore(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

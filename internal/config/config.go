package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"TrendSentinel/internal/model"
	"TrendSentinel/internal/strategy"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data providers.
const (
	ProviderYahoo = "yahoo"
	ProviderREST  = "rest"
	ProviderMock  = "mock"
)

// Verdict store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// EngineConfig overrides the classification constants. Unset fields keep the defaults.
type EngineConfig struct {
	DMILength        *int               `yaml:"dmi_length"`
	DMISmoothing     *int               `yaml:"dmi_smoothing"`
	FastLength       *int               `yaml:"fast_length"`
	SlowLength       *int               `yaml:"slow_length"`
	SignalLength     *int               `yaml:"signal_length"`
	LengthAdjustment *int               `yaml:"length_adjustment"`
	MinBars          *int               `yaml:"min_bars"`
	BuyThreshold     *float64           `yaml:"buy_threshold"`
	SellThreshold    *float64           `yaml:"sell_threshold"`
	Weights          map[string]float64 `yaml:"weights"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		// Summary sends the counts of every scheduled scan, not only transitions.
		Summary bool `yaml:"summary"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider   string        `yaml:"provider"`
		BaseURL    string        `yaml:"base_url"`
		APIKey     string        `yaml:"api_key"`
		Retries    int           `yaml:"retries"`
		RetryDelay time.Duration `yaml:"retry_delay"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Scan struct {
		Portfolio string `yaml:"portfolio"`
		Workers   int    `yaml:"workers"`
	} `yaml:"scan"`
	Store struct {
		Kind        string `yaml:"kind"`
		FilePath    string `yaml:"file_path"`
		RedisAddr   string `yaml:"redis_addr"`
		RedisPrefix string `yaml:"redis_prefix"`
	} `yaml:"store"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Engine     EngineConfig        `yaml:"engine"`
	Portfolios map[string][]string `yaml:"portfolios"`
	Proxy      string              `yaml:"proxy"`
}

// Load reads an optional .env file next to the working directory, the YAML
// config at path, then applies environment variable overrides and defaults.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_SOURCE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		c.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	if c.DataSource.Retries == 0 {
		c.DataSource.Retries = 3
	}
	if c.DataSource.RetryDelay == 0 {
		c.DataSource.RetryDelay = time.Second
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 15 * time.Second
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 0 * * * *"
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 4
	}
	if c.Store.Kind == "" {
		c.Store.Kind = StoreFile
	}
	if c.Store.FilePath == "" {
		c.Store.FilePath = "data/verdicts.json"
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = "localhost:6379"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/trend_sentinel.db"
	}
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if len(c.Portfolios) == 0 {
		c.Portfolios = DefaultPortfolios()
	}
	if c.Scan.Portfolio == "" {
		c.Scan.Portfolio = DefaultPortfolio
	}
}

// Validate checks the configuration and reports every problem at once.
// Telegram settings are optional as a pair.
func (c *Config) Validate() error {
	var errs error

	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		errs = errors.Join(errs, fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together"))
	}
	if c.Telegram.ChatID != "" {
		if _, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64); err != nil {
			errs = errors.Join(errs, fmt.Errorf("telegram.chat_id %q is not numeric", c.Telegram.ChatID))
		}
	}

	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			errs = errors.Join(errs, fmt.Errorf("data_source.base_url is required for the rest provider"))
		}
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider))
	}
	if c.DataSource.Retries < 1 {
		errs = errors.Join(errs, fmt.Errorf("data_source.retries must be positive"))
	}

	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown store.kind %q", c.Store.Kind))
	}

	if c.Scan.Workers < 1 {
		errs = errors.Join(errs, fmt.Errorf("scan.workers must be positive"))
	}
	if _, ok := c.Portfolios[c.Scan.Portfolio]; !ok {
		errs = errors.Join(errs, fmt.Errorf("scan.portfolio %q is not defined in portfolios", c.Scan.Portfolio))
	}
	for name, symbols := range c.Portfolios {
		if len(symbols) == 0 {
			errs = errors.Join(errs, fmt.Errorf("portfolio %q has no symbols", name))
		}
	}

	if _, err := c.EngineParams(); err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}

// EngineParams returns the engine parameters with the configured overrides applied.
func (c *Config) EngineParams() (strategy.Params, error) {
	p := strategy.DefaultParams()
	e := c.Engine

	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setInt(&p.DMILength, e.DMILength)
	setInt(&p.DMISmoothing, e.DMISmoothing)
	setInt(&p.FastLength, e.FastLength)
	setInt(&p.SlowLength, e.SlowLength)
	setInt(&p.SignalLength, e.SignalLength)
	setInt(&p.LengthAdjustment, e.LengthAdjustment)
	setInt(&p.MinBars, e.MinBars)
	if e.BuyThreshold != nil {
		p.BuyThreshold = *e.BuyThreshold
	}
	if e.SellThreshold != nil {
		p.SellThreshold = *e.SellThreshold
	}

	if len(e.Weights) > 0 {
		p.Weights = make(map[model.Timeframe]float64, len(e.Weights))
		for name, w := range e.Weights {
			tf, err := model.ParseTimeframe(name)
			if err != nil {
				return p, fmt.Errorf("engine.weights: %w", err)
			}
			p.Weights[tf] = w
		}
	}

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("engine: %w", err)
	}
	return p, nil
}

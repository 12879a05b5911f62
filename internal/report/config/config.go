package config

import (
	"golang-report-consensus/pkg/config"
)

// MarketData holds the configuration for the external price-lookup API.
type MarketData struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// PriceRefresh holds the configuration for the scheduled price refresh job.
type PriceRefresh struct {
	Schedule   string `mapstructure:"schedule"`
	Range      string `mapstructure:"range"`
	Interval   string `mapstructure:"interval"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// Ingest holds ingestion tuning knobs.
type Ingest struct {
	// MaxBatchRetries bounds the reruns of a batch that lost a natural-key
	// race to a concurrent batch.
	MaxBatchRetries int `mapstructure:"max_batch_retries"`
}

// Telegram holds configuration for the operator notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the report service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	MarketData   MarketData      `mapstructure:"market_data"`
	PriceRefresh PriceRefresh    `mapstructure:"price_refresh"`
	Ingest       Ingest          `mapstructure:"ingest"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

// Load loads the report service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Ingest.MaxBatchRetries <= 0 {
		cfg.Ingest.MaxBatchRetries = 3
	}
	if cfg.PriceRefresh.Range == "" {
		cfg.PriceRefresh.Range = "7d"
	}
	if cfg.PriceRefresh.Interval == "" {
		cfg.PriceRefresh.Interval = "1d"
	}
	return &cfg, nil
}

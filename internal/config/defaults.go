package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultMarketplaceURL   = "https://api.ebay.com"
	DefaultMetronURL        = "https://metron.cloud/api"
	DefaultComicVineURL     = "https://comicvine.gamespot.com/api"
	DefaultMinInterval      = 1500 * time.Millisecond
	DefaultSourceTimeout    = 30 * time.Second
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultDurableBackend   = "postgres"
	DefaultPromotionTTL     = 300 * time.Second
	DefaultHistoryEphemeral = 1 * time.Hour
	DefaultHistoryDurable   = 24 * time.Hour
	DefaultIssueEphemeral   = 1 * time.Hour
	DefaultIssueDurable     = 7 * 24 * time.Hour
	DefaultResultLimit      = 20
	DefaultConcurrency      = 1
	DefaultCheckSpec        = "@every 6h"
	DefaultSweepSpec        = "@every 1h"
	DefaultHealthPort       = 8080
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// ApplyDefaults fills zero-valued optional fields.
func (c *Config) ApplyDefaults() {
	applyDBDefaults(&c.Database.Postgres)

	// Cache defaults
	if c.Cache.DurableBackend == "" {
		c.Cache.DurableBackend = DefaultDurableBackend
	}
	if c.Cache.PromotionTTL == 0 {
		c.Cache.PromotionTTL = DefaultPromotionTTL
	}
	if c.Cache.HistoryTTL.Ephemeral == 0 {
		c.Cache.HistoryTTL.Ephemeral = DefaultHistoryEphemeral
	}
	if c.Cache.HistoryTTL.Durable == 0 {
		c.Cache.HistoryTTL.Durable = DefaultHistoryDurable
	}
	if c.Cache.IssueTTL.Ephemeral == 0 {
		c.Cache.IssueTTL.Ephemeral = DefaultIssueEphemeral
	}
	if c.Cache.IssueTTL.Durable == 0 {
		c.Cache.IssueTTL.Durable = DefaultIssueDurable
	}

	// Source defaults
	applySourceDefaults(&c.Sources.Marketplace.SourceConfig, DefaultMarketplaceURL)
	applySourceDefaults(&c.Sources.Metron.SourceConfig, DefaultMetronURL)
	applySourceDefaults(&c.Sources.ComicVine.SourceConfig, DefaultComicVineURL)

	// Matcher defaults
	if c.Matcher.ResultLimit == 0 {
		c.Matcher.ResultLimit = DefaultResultLimit
	}
	if c.Matcher.Concurrency == 0 {
		c.Matcher.Concurrency = DefaultConcurrency
	}

	if c.Schedule.CheckSpec == "" {
		c.Schedule.CheckSpec = DefaultCheckSpec
	}
	if c.Schedule.SweepSpec == "" {
		c.Schedule.SweepSpec = DefaultSweepSpec
	}

	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

func applySourceDefaults(s *SourceConfig, baseURL string) {
	if s.BaseURL == "" {
		s.BaseURL = baseURL
	}
	if s.MinInterval == 0 {
		s.MinInterval = DefaultMinInterval
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultSourceTimeout
	}
}

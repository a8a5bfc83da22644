package config

import "time"

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Sources  SourcesConfig  `yaml:"sources"`
	Matcher  MatcherConfig  `yaml:"matcher"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Health   HealthConfig   `yaml:"health"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds the PostgreSQL connection for want-list data and
// the durable cache tier.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// CacheConfig holds tiered cache settings.
type CacheConfig struct {
	DurableBackend string        `yaml:"durable_backend"` // postgres, redis, or memory
	RedisURL       string        `yaml:"redis_url"`
	PromotionTTL   time.Duration `yaml:"promotion_ttl"`
	HistoryTTL     TTLPair       `yaml:"history"`
	IssueTTL       TTLPair       `yaml:"issue"`
}

// TTLPair is the ephemeral and durable lifetime for one kind of data.
// A zero durable TTL keeps the data process-local.
type TTLPair struct {
	Ephemeral time.Duration `yaml:"ephemeral"`
	Durable   time.Duration `yaml:"durable"`
}

// SourcesConfig holds per-source client settings.
type SourcesConfig struct {
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Metron      MetronConfig      `yaml:"metron"`
	ComicVine   ComicVineConfig   `yaml:"comicvine"`
}

// SourceConfig holds the settings shared by every source.
type SourceConfig struct {
	BaseURL     string        `yaml:"base_url"`
	MinInterval time.Duration `yaml:"min_interval"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
}

// MarketplaceConfig configures the marketplace client.
type MarketplaceConfig struct {
	SourceConfig `yaml:",inline"`
	Token        string `yaml:"token"` // OAuth application token
}

// MetronConfig configures the Metron client. Empty credentials disable it.
type MetronConfig struct {
	SourceConfig `yaml:",inline"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
}

// ComicVineConfig configures the ComicVine client. An empty key disables it.
type ComicVineConfig struct {
	SourceConfig `yaml:",inline"`
	APIKey       string `yaml:"api_key"`
}

// MatcherConfig holds want-list matcher settings.
type MatcherConfig struct {
	ResultLimit int `yaml:"result_limit"`
	Concurrency int `yaml:"concurrency"`
}

// ScheduleConfig holds cron specs for the maintenance jobs. An empty spec
// disables that job.
type ScheduleConfig struct {
	CheckSpec string `yaml:"check_spec"`
	SweepSpec string `yaml:"sweep_spec"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Intervals returns the per-source minimum request interval keyed by source name.
func (c *Config) Intervals() map[string]time.Duration {
	return map[string]time.Duration{
		"marketplace": c.Sources.Marketplace.MinInterval,
		"metron":      c.Sources.Metron.MinInterval,
		"comicvine":   c.Sources.ComicVine.MinInterval,
	}
}

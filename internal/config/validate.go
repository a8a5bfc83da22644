package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	switch c.Cache.DurableBackend {
	case "postgres", "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return errors.New("cache.redis_url is required when cache.durable_backend is redis")
		}
	default:
		return fmt.Errorf("cache.durable_backend must be postgres, redis, or memory, got %q", c.Cache.DurableBackend)
	}

	if c.Cache.PromotionTTL <= 0 {
		return errors.New("cache.promotion_ttl must be > 0")
	}
	if c.Cache.HistoryTTL.Ephemeral <= 0 {
		return errors.New("cache.history.ephemeral must be > 0")
	}
	if c.Cache.IssueTTL.Ephemeral <= 0 {
		return errors.New("cache.issue.ephemeral must be > 0")
	}

	if err := c.Sources.Marketplace.validate("sources.marketplace"); err != nil {
		return err
	}
	if err := c.Sources.Metron.validate("sources.metron"); err != nil {
		return err
	}
	if err := c.Sources.ComicVine.validate("sources.comicvine"); err != nil {
		return err
	}

	if c.Matcher.ResultLimit < 1 || c.Matcher.ResultLimit > 200 {
		return fmt.Errorf("matcher.result_limit must be between 1 and 200, got %d", c.Matcher.ResultLimit)
	}
	if c.Matcher.Concurrency < 1 {
		return errors.New("matcher.concurrency must be >= 1")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (s *SourceConfig) validate(prefix string) error {
	if s.BaseURL == "" {
		return fmt.Errorf("%s.base_url is required", prefix)
	}
	if s.MinInterval <= 0 {
		return fmt.Errorf("%s.min_interval must be > 0, got %v", prefix, s.MinInterval)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%s.timeout must be > 0", prefix)
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("%s.max_retries must be >= 0", prefix)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

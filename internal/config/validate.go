package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"
)

const dateLayout = "2006-01-02"

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("calendar.timezone %q is not a known location", c.Calendar.Timezone)
	}
	for _, d := range c.Calendar.Holidays {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("calendar.holidays entry %q is not YYYY-MM-DD", d)
		}
	}
	for _, d := range c.Calendar.HalfDays {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("calendar.half_days entry %q is not YYYY-MM-DD", d)
		}
	}

	if c.Quotes.RateLimit < 0 {
		return errors.New("quotes.rate_limit must be >= 0")
	}

	if c.Collector.Interval <= 0 {
		return errors.New("collector.interval must be > 0")
	}
	if c.Collector.Concurrency < 1 {
		return errors.New("collector.concurrency must be >= 1")
	}
	if c.Collector.Window <= 0 {
		return errors.New("collector.window must be > 0")
	}

	if c.Backfill.Concurrency < 1 {
		return errors.New("backfill.concurrency must be >= 1")
	}

	if c.Resolver.LookbackDays < 0 {
		return errors.New("resolver.lookback_days must be >= 0")
	}
	if c.Resolver.CacheSize < 1 {
		return errors.New("resolver.cache_size must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
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

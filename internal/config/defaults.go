package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultQuotesURL            = "https://query1.finance.yahoo.com/v7/finance"
	DefaultQuotesTimeout        = 30 * time.Second
	DefaultMaxRetries           = 3
	DefaultRateLimit            = 5.0
	DefaultDBPort               = 5432
	DefaultDBSSLMode            = "prefer"
	DefaultMaxConns             = 10
	DefaultMinConns             = 2
	DefaultTimezone             = "America/New_York"
	DefaultCollectorInterval    = 10 * time.Second
	DefaultCollectorConcurrency = 4
	DefaultCollectorTimeout     = 10 * time.Second
	DefaultCollectorWindow      = time.Hour
	DefaultBackfillConcurrency  = 4
	DefaultLookbackDays         = 30
	DefaultCacheTTL             = 60 * time.Minute
	DefaultCacheSize            = 1024
	DefaultMetricsPort          = 9090
	DefaultMetricsPath          = "/metrics"
)

func (c *Config) applyDefaults() {
	// Quote source defaults
	if c.Quotes.BaseURL == "" {
		c.Quotes.BaseURL = DefaultQuotesURL
	}
	if c.Quotes.Timeout == 0 {
		c.Quotes.Timeout = DefaultQuotesTimeout
	}
	if c.Quotes.MaxRetries == 0 {
		c.Quotes.MaxRetries = DefaultMaxRetries
	}
	if c.Quotes.RateLimit == 0 {
		c.Quotes.RateLimit = DefaultRateLimit
	}

	// Database defaults
	applyDBDefaults(&c.Database)

	// Calendar defaults
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = DefaultTimezone
	}

	// Collector defaults
	if c.Collector.Interval == 0 {
		c.Collector.Interval = DefaultCollectorInterval
	}
	if c.Collector.Concurrency == 0 {
		c.Collector.Concurrency = DefaultCollectorConcurrency
	}
	if c.Collector.Timeout == 0 {
		c.Collector.Timeout = DefaultCollectorTimeout
	}
	if c.Collector.Window == 0 {
		c.Collector.Window = DefaultCollectorWindow
	}

	// Backfill defaults
	if len(c.Backfill.Symbols) == 0 {
		c.Backfill.Symbols = c.Collector.Symbols
	}
	if c.Backfill.Concurrency == 0 {
		c.Backfill.Concurrency = DefaultBackfillConcurrency
	}

	// Resolver defaults
	if c.Resolver.LookbackDays == 0 {
		c.Resolver.LookbackDays = DefaultLookbackDays
	}
	if c.Resolver.CacheTTL == 0 {
		c.Resolver.CacheTTL = DefaultCacheTTL
	}
	if c.Resolver.CacheSize == 0 {
		c.Resolver.CacheSize = DefaultCacheSize
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
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

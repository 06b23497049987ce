package config

import "time"

// Config is the root configuration shared by the collector, backfill and resolver binaries.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Quotes    QuotesConfig    `yaml:"quotes"`
	Database  DBConfig        `yaml:"database"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Collector CollectorConfig `yaml:"collector"`
	Backfill  BackfillConfig  `yaml:"backfill"`
	Resolver  ResolverConfig  `yaml:"resolver"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// InstanceConfig identifies this process.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// QuotesConfig holds quote-source REST settings.
type QuotesConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RateLimit  float64       `yaml:"rate_limit"` // Requests per second
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

// CalendarConfig holds the exchange time zone and closure lists (YYYY-MM-DD).
type CalendarConfig struct {
	Timezone string   `yaml:"timezone"`
	Holidays []string `yaml:"holidays"`
	HalfDays []string `yaml:"half_days"`
}

// CollectorConfig holds real-time collector settings.
type CollectorConfig struct {
	Symbols     []string      `yaml:"symbols"`
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	Window      time.Duration `yaml:"window"` // Real-time backfill lookback
}

// BackfillConfig holds full-day backfill settings.
type BackfillConfig struct {
	Symbols     []string `yaml:"symbols"`
	Concurrency int      `yaml:"concurrency"`
}

// ResolverConfig holds contract resolution settings.
type ResolverConfig struct {
	LookbackDays int           `yaml:"lookback_days"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	CacheSize    int           `yaml:"cache_size"`
}

// MetricsConfig holds the health/metrics HTTP server settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

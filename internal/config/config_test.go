package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-collector
quotes:
  base_url: https://quotes.example.com/v1
database:
  host: localhost
  port: 5432
  name: test_db
  user: testuser
  password: testpass
collector:
  symbols: [SPY, XIV]
  interval: 10s
calendar:
  holidays: ["2024-07-04"]
  half_days: ["2024-07-03"]
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-collector" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-collector")
	}
	if cfg.Quotes.BaseURL != "https://quotes.example.com/v1" {
		t.Errorf("Quotes.BaseURL = %q, want %q", cfg.Quotes.BaseURL, "https://quotes.example.com/v1")
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "localhost")
	}
	if len(cfg.Collector.Symbols) != 2 || cfg.Collector.Symbols[1] != "XIV" {
		t.Errorf("Collector.Symbols = %v, want [SPY XIV]", cfg.Collector.Symbols)
	}
	if cfg.Collector.Interval != 10*time.Second {
		t.Errorf("Collector.Interval = %v, want 10s", cfg.Collector.Interval)
	}
	if len(cfg.Calendar.HalfDays) != 1 || cfg.Calendar.HalfDays[0] != "2024-07-03" {
		t.Errorf("Calendar.HalfDays = %v, want [2024-07-03]", cfg.Calendar.HalfDays)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: test-collector
database:
  host: localhost
  name: test_db
  user: testuser
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadWithEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("TEST_QUOTES_KEY=from-dotenv\n"), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TEST_QUOTES_KEY") })

	orig := EnvFile
	EnvFile = envPath
	defer func() { EnvFile = orig }()

	yaml := `
instance:
  id: test-collector
quotes:
  api_key: ${TEST_QUOTES_KEY}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Quotes.APIKey != "from-dotenv" {
		t.Errorf("Quotes.APIKey = %q, want %q", cfg.Quotes.APIKey, "from-dotenv")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-collector
database:
  host: localhost
  name: test_db
  user: testuser
  password: testpass
collector:
  symbols: [SPY]
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Quotes.BaseURL != DefaultQuotesURL {
		t.Errorf("Quotes.BaseURL = %q, want default %q", cfg.Quotes.BaseURL, DefaultQuotesURL)
	}
	if cfg.Quotes.Timeout != DefaultQuotesTimeout {
		t.Errorf("Quotes.Timeout = %v, want default %v", cfg.Quotes.Timeout, DefaultQuotesTimeout)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Database.MaxConns != DefaultMaxConns {
		t.Errorf("Database.MaxConns = %d, want default %d", cfg.Database.MaxConns, DefaultMaxConns)
	}
	if cfg.Calendar.Timezone != DefaultTimezone {
		t.Errorf("Calendar.Timezone = %q, want default %q", cfg.Calendar.Timezone, DefaultTimezone)
	}
	if cfg.Collector.Interval != DefaultCollectorInterval {
		t.Errorf("Collector.Interval = %v, want default %v", cfg.Collector.Interval, DefaultCollectorInterval)
	}
	if cfg.Collector.Window != DefaultCollectorWindow {
		t.Errorf("Collector.Window = %v, want default %v", cfg.Collector.Window, DefaultCollectorWindow)
	}
	if len(cfg.Backfill.Symbols) != 1 || cfg.Backfill.Symbols[0] != "SPY" {
		t.Errorf("Backfill.Symbols = %v, want collector symbols [SPY]", cfg.Backfill.Symbols)
	}
	if cfg.Resolver.LookbackDays != DefaultLookbackDays {
		t.Errorf("Resolver.LookbackDays = %d, want default %d", cfg.Resolver.LookbackDays, DefaultLookbackDays)
	}
	if cfg.Resolver.CacheTTL != DefaultCacheTTL {
		t.Errorf("Resolver.CacheTTL = %v, want default %v", cfg.Resolver.CacheTTL, DefaultCacheTTL)
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Metrics.Port = %d, want default %d", cfg.Metrics.Port, DefaultMetricsPort)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Instance: InstanceConfig{ID: "test"},
			Database: DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 10, MinConns: 2},
			Calendar: CalendarConfig{Timezone: "America/New_York", Holidays: []string{"2024-07-04"}},
			Collector: CollectorConfig{
				Interval:    10 * time.Second,
				Concurrency: 4,
				Window:      time.Hour,
			},
			Backfill: BackfillConfig{Concurrency: 4},
			Resolver: ResolverConfig{LookbackDays: 30, CacheSize: 1024},
			Metrics:  MetricsConfig{Port: 9090},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing instance id",
			mutate:  func(c *Config) { *c = Config{} },
			wantErr: "instance.id is required",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "database.host is required",
		},
		{
			name:    "missing database password",
			mutate:  func(c *Config) { c.Database.Password = "" },
			wantErr: "database.password is required",
		},
		{
			name:    "min_conns exceeds max_conns",
			mutate:  func(c *Config) { c.Database.MaxConns, c.Database.MinConns = 5, 10 },
			wantErr: "database.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Calendar.Timezone = "Mars/Olympus_Mons" },
			wantErr: `calendar.timezone "Mars/Olympus_Mons" is not a known location`,
		},
		{
			name:    "bad holiday",
			mutate:  func(c *Config) { c.Calendar.Holidays = []string{"July 4"} },
			wantErr: `calendar.holidays entry "July 4" is not YYYY-MM-DD`,
		},
		{
			name:    "zero collector window",
			mutate:  func(c *Config) { c.Collector.Window = 0 },
			wantErr: "collector.window must be > 0",
		},
		{
			name:    "negative lookback",
			mutate:  func(c *Config) { c.Resolver.LookbackDays = -1 },
			wantErr: "resolver.lookback_days must be >= 0",
		},
		{
			name:    "metrics port out of range",
			mutate:  func(c *Config) { c.Metrics.Port = 70000 },
			wantErr: "metrics.port must be between 1 and 65535, got 70000",
		},
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

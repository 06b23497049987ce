package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/marketdata/internal/backfill"
	"github.com/rickgao/marketdata/internal/calendar"
	"github.com/rickgao/marketdata/internal/metrics"
	"github.com/rickgao/marketdata/internal/model"
)

// QuoteSource fetches the latest quote for a symbol.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (model.Sample, error)
}

// SampleSink stores collected samples.
type SampleSink interface {
	InsertSample(ctx context.Context, symbol string, s model.Sample) error
}

// Backfiller repairs the trailing window of a symbol.
type Backfiller interface {
	Realtime(ctx context.Context, symbol string, now time.Time) (backfill.Result, error)
}

// Config holds collector configuration.
type Config struct {
	Symbols     []string
	Interval    time.Duration // Tick interval (default: 1m)
	Concurrency int           // Max symbols in flight (default: 4)
	Timeout     time.Duration // Per-symbol timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    time.Minute,
		Concurrency: 4,
		Timeout:     30 * time.Second,
	}
}

// Collector periodically collects quotes and repairs the recent series.
type Collector struct {
	cfg      Config
	cal      *calendar.Calendar
	quotes   QuoteSource
	sink     SampleSink
	backfill Backfiller
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	cycles atomic.Int64
}

// New creates a new Collector.
func New(cfg Config, cal *calendar.Calendar, quotes QuoteSource, sink SampleSink, bf Backfiller, m *metrics.Metrics, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Collector{
		cfg:      cfg,
		cal:      cal,
		quotes:   quotes,
		sink:     sink,
		backfill: bf,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins the collection loop.
func (c *Collector) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.run()

	c.logger.Info("collector started",
		"symbols", len(c.cfg.Symbols),
		"interval", c.cfg.Interval,
		"concurrency", c.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the collector.
func (c *Collector) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("collector stopped", "cycles", c.cycles.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cycles returns how many ticks ran while the market was open.
func (c *Collector) Cycles() int64 {
	return c.cycles.Load()
}

// run is the main loop.
func (c *Collector) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	// Collect immediately on start.
	c.collectAll()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.collectAll()
		}
	}
}

// collectAll processes every symbol with bounded concurrency.
func (c *Collector) collectAll() {
	now := c.now()
	if !c.cal.IsMarketOpen(now) {
		c.logger.Debug("market closed, skipping cycle", "now", now)
		return
	}
	c.cycles.Add(1)

	start := time.Now()
	var collected, filled, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(c.cfg.Concurrency)

	for _, symbol := range c.cfg.Symbols {
		if c.ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			n, err := c.collectSymbol(symbol, now)
			filled.Add(int64(n))
			if err != nil {
				c.logger.Warn("collect cycle failed",
					"symbol", symbol,
					"err", err,
				)
				failed.Add(1)
				return nil
			}
			collected.Add(1)
			return nil
		})
	}

	_ = g.Wait()

	c.logger.Info("collect cycle complete",
		"symbols", len(c.cfg.Symbols),
		"collected", collected.Load(),
		"filled", filled.Load(),
		"errors", failed.Load(),
		"duration", time.Since(start),
	)
}

// collectSymbol stores the latest quote, then repairs the trailing window even if the
// quote could not be fetched.
func (c *Collector) collectSymbol(symbol string, now time.Time) (filled int, err error) {
	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.Timeout)
	defer cancel()

	var errs []error
	if err := c.collectQuote(ctx, symbol); err != nil {
		c.metrics.Error("collect")
		errs = append(errs, err)
	}

	res, err := c.backfill.Realtime(ctx, symbol, now)
	if err != nil {
		c.metrics.Error("backfill")
		errs = append(errs, fmt.Errorf("backfill: %w", err))
	}

	return res.Filled, errors.Join(errs...)
}

func (c *Collector) collectQuote(ctx context.Context, symbol string) error {
	sample, err := c.quotes.GetQuote(ctx, symbol)
	if err != nil {
		return fmt.Errorf("quote: %w", err)
	}
	if err := c.sink.InsertSample(ctx, symbol, sample); err != nil {
		return fmt.Errorf("store quote: %w", err)
	}
	c.metrics.QuoteCollected(symbol)
	return nil
}

package backfill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/marketdata/internal/calendar"
	"github.com/rickgao/marketdata/internal/metrics"
	"github.com/rickgao/marketdata/internal/model"
	"github.com/rickgao/marketdata/internal/series"
)

// Backfill modes, used as log and metric labels.
const (
	ModeFullDay  = "full_day"
	ModeRealtime = "realtime"
)

// Defaults.
const (
	DefaultLookback    = time.Hour
	DefaultConcurrency = 4
)

// SampleSource returns observed samples for symbol in [start, end], ascending.
type SampleSource interface {
	FetchSamples(ctx context.Context, symbol string, start, end time.Time) ([]model.Sample, error)
}

// BarSink persists bars as one atomic batch.
type BarSink interface {
	PersistBars(ctx context.Context, bars []model.Bar) error
}

// Result describes one backfill run for one symbol.
type Result struct {
	RunID   uuid.UUID
	Symbol  string
	Mode    string
	Filled  int
	Skipped bool // Nothing to do: closed market or empty window
}

// Service runs backfills over a sample source and bar sink.
type Service struct {
	cal     *calendar.Calendar
	source  SampleSource
	sink    BarSink
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	lookback    time.Duration
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock sets the time source used to pick the default date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLookback sets the real-time window length.
func WithLookback(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lookback = d
		}
	}
}

// WithConcurrency bounds how many symbols FullDayAll processes at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a Service.
func New(cal *calendar.Calendar, source SampleSource, sink BarSink, opts ...Option) *Service {
	s := &Service{
		cal:         cal,
		source:      source,
		sink:        sink,
		logger:      slog.Default(),
		now:         time.Now,
		lookback:    DefaultLookback,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// FullDay fills every missing session minute of date. A zero date means the latest
// trading date as of now.
func (s *Service) FullDay(ctx context.Context, symbol string, date time.Time) (Result, error) {
	if date.IsZero() {
		date = s.cal.LatestTradingDate(s.now())
	}
	date = s.cal.Date(date)

	minutes := s.cal.TradingMinutes(date)
	if len(minutes) == 0 {
		s.logger.Debug("not a trading day", "symbol", symbol, "date", date.Format(time.DateOnly))
		s.metrics.BackfillSkipped(ModeFullDay, "closed")
		return Result{Symbol: symbol, Mode: ModeFullDay, Skipped: true}, nil
	}

	return s.run(ctx, ModeFullDay, symbol, minutes, minutes[0], minutes[len(minutes)-1])
}

// Realtime fills the missing minutes of the trailing window ending at now.
func (s *Service) Realtime(ctx context.Context, symbol string, now time.Time) (Result, error) {
	start, end, ok := s.cal.Window(now, s.lookback)
	if !ok {
		s.metrics.BackfillSkipped(ModeRealtime, "empty_window")
		return Result{Symbol: symbol, Mode: ModeRealtime, Skipped: true}, nil
	}

	return s.run(ctx, ModeRealtime, symbol, s.cal.WindowMinutes(now, s.lookback), start, end)
}

// FullDayAll runs FullDay for every symbol with bounded concurrency. Every symbol is
// attempted; failures are joined into the returned error.
func (s *Service) FullDayAll(ctx context.Context, symbols []string, date time.Time) ([]Result, error) {
	if date.IsZero() {
		date = s.cal.LatestTradingDate(s.now())
	}

	results := make([]Result, len(symbols))
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, symbol := range symbols {
		g.Go(func() error {
			res, err := s.FullDay(gctx, symbol, date)
			results[i] = res
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	return results, errors.Join(errs...)
}

func (s *Service) run(ctx context.Context, mode, symbol string, minutes []time.Time, start, end time.Time) (Result, error) {
	res := Result{RunID: uuid.New(), Symbol: symbol, Mode: mode}
	logger := s.logger.With("run_id", res.RunID, "symbol", symbol, "mode", mode)

	samples, err := s.source.FetchSamples(ctx, symbol, start, end)
	if err != nil {
		s.metrics.Error("fetch")
		return res, fmt.Errorf("fetch samples: %w", err)
	}

	observed, err := series.LastPerMinute(samples)
	if err != nil {
		s.metrics.Error("fill")
		return res, fmt.Errorf("bucket samples: %w", err)
	}

	bars, err := series.Fill(symbol, minutes, observed)
	if err != nil {
		s.metrics.Error("fill")
		return res, fmt.Errorf("fill %s: %w", mode, err)
	}

	if len(bars) == 0 {
		logger.Debug("series complete", "minutes", len(minutes), "samples", len(samples))
		return res, nil
	}

	for i := range bars {
		bars[i].FillID = res.RunID
	}

	if err := s.sink.PersistBars(ctx, bars); err != nil {
		s.metrics.Error("persist")
		return res, fmt.Errorf("persist bars: %w", err)
	}

	res.Filled = len(bars)
	s.metrics.BarsFilled(symbol, mode, len(bars))
	logger.Info("filled missing minutes",
		"filled", len(bars),
		"minutes", len(minutes),
		"samples", len(samples),
		"observed_minutes", len(observed),
		"start", start,
		"end", end,
	)
	return res, nil
}

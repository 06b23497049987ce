package writer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/marketdata/internal/model"
)

// Execer runs a single statement. *pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SampleWriter stores collected quotes as observed bars with open=high=low=close=price.
type SampleWriter struct {
	db     Execer
	table  string
	logger *slog.Logger

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewSampleWriter creates a SampleWriter for table.
func NewSampleWriter(db Execer, table string, logger *slog.Logger) *SampleWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SampleWriter{
		db:     db,
		table:  table,
		logger: logger,
	}
}

// InsertSample writes one observed sample for symbol.
func (w *SampleWriter) InsertSample(ctx context.Context, symbol string, s model.Sample) error {
	r := transformBar(model.Bar{
		Symbol: symbol,
		Time:   s.Time,
		Open:   s.Price,
		High:   s.Price,
		Low:    s.Price,
		Close:  s.Price,
	})

	ct, err := w.db.Exec(ctx, insertBarSQL(w.table),
		r.Symbol, r.TradeTime, r.Open, r.High, r.Low, r.Close, r.Volume, r.OpenInterest, r.FillID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.metrics.Errors++
		return fmt.Errorf("insert sample %s into %s: %w", symbol, w.table, err)
	}
	if ct.RowsAffected() == 0 {
		w.metrics.Conflicts++
		w.logger.Debug("sample already stored", "symbol", symbol, "time", s.Time)
		return nil
	}
	w.metrics.Inserts++
	return nil
}

// Stats returns current metrics.
func (w *SampleWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/marketdata/internal/model"
)

// BarWriter persists bars into an equity bar table.
type BarWriter struct {
	db     TxBeginner
	table  string
	logger *slog.Logger

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewBarWriter creates a BarWriter for table.
func NewBarWriter(db TxBeginner, table string, logger *slog.Logger) *BarWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &BarWriter{
		db:     db,
		table:  table,
		logger: logger,
	}
}

// PersistBars writes bars in one transaction. Either every row is applied or none is.
func (w *BarWriter) PersistBars(ctx context.Context, bars []model.Bar) (err error) {
	if len(bars) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		if err != nil {
			w.mu.Lock()
			w.metrics.Errors++
			w.mu.Unlock()
		}
	}()

	tx, err := w.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				w.logger.Warn("rollback failed", "table", w.table, "error", rbErr)
			}
		}
	}()

	conflicts, err := w.batchInsert(ctx, tx, bars)
	if err != nil {
		return fmt.Errorf("insert bars into %s: %w", w.table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bars into %s: %w", w.table, err)
	}

	w.mu.Lock()
	w.metrics.Inserts += int64(len(bars) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.mu.Unlock()

	w.logger.Debug("persisted bars",
		"table", w.table,
		"count", len(bars),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// Stats returns current metrics.
func (w *BarWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// batchInsert queues every bar on a pgx.Batch with ON CONFLICT DO NOTHING.
func (w *BarWriter) batchInsert(ctx context.Context, tx pgx.Tx, bars []model.Bar) (conflicts int, err error) {
	query := insertBarSQL(w.table)

	batch := &pgx.Batch{}
	for _, b := range bars {
		r := transformBar(b)
		batch.Queue(query, r.Symbol, r.TradeTime, r.Open, r.High, r.Low, r.Close, r.Volume, r.OpenInterest, r.FillID)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range bars {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, results.Close()
}

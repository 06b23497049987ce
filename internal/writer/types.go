package writer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rickgao/marketdata/internal/model"
)

// TxBeginner starts transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// barRow represents a row for the equity bar tables.
type barRow struct {
	Symbol       string
	TradeTime    time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       int64
	OpenInterest int64
	FillID       *uuid.UUID // NULL for observed rows
}

// WriterMetrics holds metrics for a writer.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
}

func transformBar(b model.Bar) barRow {
	row := barRow{
		Symbol:       b.Symbol,
		TradeTime:    b.Time,
		Open:         b.Open,
		High:         b.High,
		Low:          b.Low,
		Close:        b.Close,
		Volume:       b.Volume,
		OpenInterest: b.OpenInterest,
	}
	if b.FillID != uuid.Nil {
		id := b.FillID
		row.FillID = &id
	}
	return row
}

func insertBarSQL(table string) string {
	return `INSERT INTO ` + pgx.Identifier{table}.Sanitize() + ` (symbol, trade_time, open_price, high_price, low_price, close_price, volume, open_interest, fill_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol, trade_time) DO NOTHING`
}

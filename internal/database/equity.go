package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/marketdata/internal/model"
)

// Equity bar tables.
const (
	TableEquityMin      = "equity_min"
	TableEquityRealtime = "equity_realtime"
)

// EquityStore reads observed prices from an equity bar table.
type EquityStore struct {
	db    Querier
	table string
}

// NewEquityStore creates a store over table (TableEquityMin or TableEquityRealtime).
func NewEquityStore(db Querier, table string) *EquityStore {
	return &EquityStore{db: db, table: table}
}

// FetchSamples returns (trade_time, close_price) for symbol in [start, end], ascending.
func (s *EquityStore) FetchSamples(ctx context.Context, symbol string, start, end time.Time) ([]model.Sample, error) {
	rows, err := s.db.Query(ctx, samplesQuery(s.table), symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("query %s samples for %s: %w", s.table, symbol, err)
	}

	samples, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Sample])
	if err != nil {
		return nil, fmt.Errorf("scan %s samples for %s: %w", s.table, symbol, err)
	}
	return samples, nil
}

func samplesQuery(table string) string {
	return `SELECT trade_time, close_price FROM ` + pgx.Identifier{table}.Sanitize() + `
		WHERE symbol = $1 AND trade_time >= $2 AND trade_time <= $3
		ORDER BY trade_time`
}

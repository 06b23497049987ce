package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/rickgao/marketdata/internal/contract"
	"github.com/rickgao/marketdata/internal/model"
)

// OptionStore reads the option_data table.
type OptionStore struct {
	db Querier
}

// NewOptionStore creates an OptionStore.
func NewOptionStore(db Querier) *OptionStore {
	return &OptionStore{db: db}
}

// StrikeCandidates returns each distinct strike of underlying/expiration/type with the
// date it first traded.
func (s *OptionStore) StrikeCandidates(ctx context.Context, underlying string, expiration time.Time, typ contract.OptionType) ([]contract.StrikeCandidate, error) {
	rows, err := s.db.Query(ctx, `
		SELECT strike_price::text, MIN(trade_time)
		FROM option_data
		WHERE underlying_symbol = $1 AND expiration_date = $2 AND option_type = $3
		GROUP BY strike_price
		ORDER BY MIN(trade_time)
	`, underlying, expiration, string(typ))
	if err != nil {
		return nil, fmt.Errorf("query strikes for %s %s: %w", underlying, expiration.Format(time.DateOnly), err)
	}

	candidates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contract.StrikeCandidate, error) {
		var (
			strike     string
			firstTrade time.Time
		)
		if err := row.Scan(&strike, &firstTrade); err != nil {
			return contract.StrikeCandidate{}, err
		}
		return toCandidate(strike, firstTrade)
	})
	if err != nil {
		return nil, fmt.Errorf("scan strikes for %s %s: %w", underlying, expiration.Format(time.DateOnly), err)
	}
	return candidates, nil
}

// Expirations returns the distinct expiration dates of underlying after from, ascending.
func (s *OptionStore) Expirations(ctx context.Context, underlying string, from time.Time) ([]time.Time, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT expiration_date
		FROM option_data
		WHERE underlying_symbol = $1 AND expiration_date > $2
		ORDER BY expiration_date
	`, underlying, from)
	if err != nil {
		return nil, fmt.Errorf("query expirations for %s: %w", underlying, err)
	}

	dates, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("scan expirations for %s: %w", underlying, err)
	}
	return dates, nil
}

// SeriesBySymbol returns the quote series of a canonical option symbol.
func (s *OptionStore) SeriesBySymbol(ctx context.Context, symbol string) ([]model.OptionQuote, error) {
	rows, err := s.db.Query(ctx, quoteColumns+`
		WHERE symbol = $1
		ORDER BY trade_time
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query series %s: %w", symbol, err)
	}
	return collectQuotes(rows, symbol)
}

// SeriesByContract returns the quote series addressed by contract fields. Digit-only
// underlyings are stored under exchange symbols, so they are looked up this way.
func (s *OptionStore) SeriesByContract(ctx context.Context, c contract.Contract) ([]model.OptionQuote, error) {
	rows, err := s.db.Query(ctx, quoteColumns+`
		WHERE underlying_symbol = $1 AND expiration_date = $2 AND option_type = $3 AND strike_price = $4::numeric
		ORDER BY trade_time
	`, c.Underlying, c.Expiration, string(c.Type), c.Strike.String())
	if err != nil {
		return nil, fmt.Errorf("query series %s: %w", c, err)
	}
	return collectQuotes(rows, c.String())
}

const quoteColumns = `
	SELECT trade_time,
		COALESCE(last_price, 0), COALESCE(delta, 0), COALESCE(gamma, 0),
		COALESCE(vega, 0), COALESCE(theta, 0), COALESCE(volatility, 0)
	FROM option_data`

func collectQuotes(rows pgx.Rows, name string) ([]model.OptionQuote, error) {
	quotes, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.OptionQuote])
	if err != nil {
		return nil, fmt.Errorf("scan series %s: %w", name, err)
	}
	return quotes, nil
}

func toCandidate(strike string, firstTrade time.Time) (contract.StrikeCandidate, error) {
	d, err := decimal.NewFromString(strike)
	if err != nil {
		return contract.StrikeCandidate{}, fmt.Errorf("parse strike %q: %w", strike, err)
	}
	return contract.StrikeCandidate{Strike: d, FirstTradeDate: firstTrade}, nil
}

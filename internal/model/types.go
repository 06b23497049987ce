package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Equity Types
// -----------------------------------------------------------------------------

// Sample is one observed (timestamp, price) pair for an equity.
type Sample struct {
	Time  time.Time // Observation time (second precision from the collector)
	Price float64   // Last price
}

// Bar is a one-minute equity bar.
type Bar struct {
	Symbol       string    // Equity symbol (e.g., "SPY")
	Time         time.Time // Minute mark
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       int64
	OpenInterest int64
	FillID       uuid.UUID // Backfill run that produced the bar; uuid.Nil for observed bars
}

// Synthetic reports whether the bar was produced by forward fill.
func (b Bar) Synthetic() bool {
	return b.Volume == 0 && b.FillID != uuid.Nil
}

// -----------------------------------------------------------------------------
// Option Types
// -----------------------------------------------------------------------------

// OptionQuote is one row of an option quote series.
type OptionQuote struct {
	TradeTime  time.Time `json:"trade_time"`
	LastPrice  float64   `json:"last_price"`
	Delta      float64   `json:"delta"`
	Gamma      float64   `json:"gamma"`
	Vega       float64   `json:"vega"`
	Theta      float64   `json:"theta"`
	Volatility float64   `json:"volatility"`
}

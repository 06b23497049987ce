// Package model defines shared data types used across the market data services.
//
// All types mirror the relational schema in internal/database/schema.sql.
//
// Conventions:
//   - Equity prices: float64 dollars, as stored in equity_min
//   - Strikes: decimal.Decimal (internal/contract), exact to 0.001
//   - Timestamps: time.Time in the exchange location (America/New_York)
//   - Synthetic bars carry a non-nil FillID and zero volume
package model

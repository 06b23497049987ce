// Package database provides the PostgreSQL connection pool and the read side of the
// market data store.
//
// Tables:
//   - equity_min: one-minute equity bars (observed and forward-filled)
//   - equity_realtime: collector quotes and bars filled during the live session
//   - option_data: option quote series with greeks
//
// Writes go through package writer.
package database

// Package collector implements the real-time collection loop.
//
// On every tick while the market is open, for each configured symbol:
//   - Fetch the latest quote and store it as an observed sample
//   - Run the windowed backfill over the trailing lookback
//
// Failures are logged and counted; the loop keeps its fixed interval without backoff.
package collector

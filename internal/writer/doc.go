// Package writer persists equity bars and collected samples.
//
// Writers:
//   - BarWriter: forward-filled bars, one transaction per call (pgx.Batch)
//   - SampleWriter: single collected quotes (equity_realtime)
//
// Writers are append-only: rows already present for (symbol, trade_time) are left
// untouched and counted as conflicts.
package writer

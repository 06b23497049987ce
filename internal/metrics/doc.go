// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Synthetic bars written per symbol and backfill mode
//   - Backfill runs skipped (empty window, closed market)
//   - Quotes collected and per-stage errors of the collector loop
//   - Named cache hits and misses
//
// A nil *Metrics is valid and records nothing.
package metrics

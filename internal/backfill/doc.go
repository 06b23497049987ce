// Package backfill repairs gaps in minute bar series.
//
// Two modes share one pipeline (expected minutes, observed samples, forward fill, persist):
//   - Full day: every session minute of a trading date, against equity_min
//   - Real time: the trailing window of the current session, against equity_realtime
//
// Every run stamps a fresh fill ID on the bars it writes so synthetic rows can be traced
// back to the run that produced them.
package backfill
